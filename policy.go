package main

import (
	"github.com/pkg/errors"

	"github.com/elijahnyp/device_controller/state"
	. "github.com/elijahnyp/device_controller/util"
)

var (
	policy    state.FailingPolicy
	policyErr error
)

func newPolicy(pc PolicyConfig) (state.FailingPolicy, error) {
	if err := pc.Validate(); err != nil {
		return nil, err
	}
	switch pc.Kind {
	case PolicyAlways:
		return state.AlwaysSucceed{}, nil
	case PolicyNever:
		return state.NeverSucceed{}, nil
	case PolicyRandom:
		p, err := state.NewRandomFailing(pc.Seed, pc.FailureProbability)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidConfig, err.Error())
		}
		return p, nil
	case PolicySequence:
		return state.NewSequence(pc.Sequence...), nil
	}
	return nil, errors.Wrapf(ErrInvalidConfig, "unknown policy kind '%s'", pc.Kind)
}

// rebuildPolicy is a config listener; it replaces the package level policy.
func rebuildPolicy() {
	pc, err := LoadPolicyConfig()
	if err != nil {
		policy, policyErr = nil, err
		return
	}
	policy, policyErr = newPolicy(pc)
	if policyErr == nil {
		Logger.Debug().Msgf("policy %s built from config", pc.Kind)
	}
}
