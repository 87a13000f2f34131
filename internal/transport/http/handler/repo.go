package handler

import (
	"time"

	"github.com/mandalnilabja/sommelier/internal/transport/http/handler/infra"
	"github.com/mandalnilabja/sommelier/internal/transport/http/handler/proxy"
)

// Repo composes all domain-specific handlers.
type Repo struct {
	Proxy *proxy.Handlers
	Infra *infra.Handlers
}

// NewRepo creates a new instance of the composed handler repository.
func NewRepo(p *proxy.Handlers) *Repo {
	return &Repo{
		Proxy: p,
		Infra: infra.New(time.Now()),
	}
}
