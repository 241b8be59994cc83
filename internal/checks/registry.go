package checks

import "samplecheck/internal/check"

// SampleChecks returns the per-sample checks in their fixed execution order.
func SampleChecks() []check.Check {
	return []check.Check{
		Structure{},
		Configuration{},
		&SampleYAML{},
		&PMStatic{},
		&Template{},
		&CommentStyle{},
		&CopyPaste{},
		&License{},
	}
}

// DocChecks returns the documentation checks that run once per invocation.
func DocChecks() []check.Check {
	return []check.Check{
		&DocIndex{},
		&DocRequirements{},
	}
}
