package identity

import (
	"context"

	"github.com/dalemusser/fitzone/internal/app/system/metrics"
	"go.uber.org/zap"
)

// Instrumented counts and logs every call to the wrapped provider.
type Instrumented struct {
	next    Provider
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewInstrumented(next Provider, m *metrics.Metrics, log *zap.Logger) *Instrumented {
	return &Instrumented{next: next, metrics: m, log: log}
}

func (p *Instrumented) SignUp(ctx context.Context, email, password string) (Identity, error) {
	id, err := p.next.SignUp(ctx, email, password)
	p.observe("sign_up", email, err)
	return id, err
}

func (p *Instrumented) SignIn(ctx context.Context, email, password string) (Identity, error) {
	id, err := p.next.SignIn(ctx, email, password)
	p.observe("sign_in", email, err)
	return id, err
}

func (p *Instrumented) Delete(ctx context.Context, id string) error {
	err := p.next.Delete(ctx, id)
	p.observe("delete", id, err)
	return err
}

func (p *Instrumented) observe(op, subject string, err error) {
	p.metrics.IdentityCall(op, err)
	if err != nil {
		p.log.Debug("identity call failed",
			zap.String("op", op),
			zap.String("subject", subject),
			zap.Error(err))
	}
}
