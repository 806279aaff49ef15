package state

import (
	"github.com/elijahnyp/device_controller/util"
)

const (
	subSystem = "device"
)

var (
	// Number of power on attempts per policy
	powerOnAttemptsTotal = util.MustRegisterCounterVec(subSystem,
		"power_on_attempts_total",
		"Number of power on attempts",
		"policy")
	// Number of power on attempts denied by the policy
	powerOnDeniedTotal = util.MustRegisterCounterVec(subSystem,
		"power_on_denied_total",
		"Number of power on attempts denied by the policy",
		"policy")
	resetsTotal = util.MustRegisterCounterVec(subSystem,
		"resets_total",
		"Number of device resets",
		"policy")
	deviceOnGauge = util.MustRegisterGaugeVec(subSystem,
		"on",
		"Power state of the device (0=OFF, 1=ON)",
		"policy")
)
