package state

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrIllegalState is returned when a device is switched on and its policy
// denies the attempt.
var ErrIllegalState = errors.New("illegal state")

type Device interface {
	On() error
	Off()
	IsOn() bool
	Reset() error
}

// FailingPolicy decides whether a power-on attempt succeeds.
type FailingPolicy interface {
	AttemptOn() bool
}

// Resetter is implemented by policies that keep state across attempts.
// Device.Reset clears it between switching off and on again. Reset consults
// AttemptOn once either way; the extra Reset call is not an attempt.
type Resetter interface {
	Reset()
}

// Named is implemented by policies that report a name for logs and metrics.
type Named interface {
	PolicyName() string
}

const unnamedPolicy = "custom"

func IsIllegalState(err error) bool {
	return errors.Cause(err) == ErrIllegalState
}

// StandardDevice is a Device whose power-on attempts are gated by a
// FailingPolicy. It is not safe for concurrent use.
type StandardDevice struct {
	policy FailingPolicy
	on     bool
	log    zerolog.Logger
}

var _ Device = (*StandardDevice)(nil)

// NewStandardDevice returns a device in the off state. The policy is used for
// the whole lifetime of the device but not owned by it.
func NewStandardDevice(policy FailingPolicy) *StandardDevice {
	return &StandardDevice{
		policy: policy,
		log:    zerolog.Nop(),
	}
}

func (d *StandardDevice) WithLogger(log zerolog.Logger) *StandardDevice {
	d.log = log.With().Str("policy", d.PolicyName()).Logger()
	return d
}

func (d *StandardDevice) IsOn() bool {
	return d.on
}

// On consults the policy exactly once. A denied attempt leaves the state
// untouched.
func (d *StandardDevice) On() error {
	name := d.PolicyName()
	powerOnAttemptsTotal.WithLabelValues(name).Inc()
	if d.policy == nil || !d.policy.AttemptOn() {
		powerOnDeniedTotal.WithLabelValues(name).Inc()
		d.log.Warn().Bool("on", d.on).Msg("power on denied")
		return errors.Wrapf(ErrIllegalState, "policy %s denied power on", name)
	}
	d.on = true
	deviceOnGauge.WithLabelValues(name).Set(1)
	d.log.Debug().Msg("switched on")
	return nil
}

func (d *StandardDevice) Off() {
	d.on = false
	deviceOnGauge.WithLabelValues(d.PolicyName()).Set(0)
	d.log.Debug().Msg("switched off")
}

// Reset power cycles the device: off, policy reset (when supported), on.
func (d *StandardDevice) Reset() error {
	resetsTotal.WithLabelValues(d.PolicyName()).Inc()
	d.Off()
	if r, ok := d.policy.(Resetter); ok {
		r.Reset()
		d.log.Debug().Msg("policy reset")
	}
	if err := d.On(); err != nil {
		return errors.Wrap(err, "reset")
	}
	return nil
}

func (d *StandardDevice) PolicyName() string {
	if n, ok := d.policy.(Named); ok {
		return n.PolicyName()
	}
	return unnamedPolicy
}

func (d *StandardDevice) String() string {
	return fmt.Sprintf("StandardDevice{policy=%s, on=%t}", d.PolicyName(), d.on)
}
