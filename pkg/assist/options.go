package assist

// ListOptions control cursor pagination for list calls. Nil fields inherit
// the session-wide defaults; an explicit zero value (0 or "") clears the
// default for that call.
type ListOptions struct {
	Limit  *int
	Order  *string
	After  *string
	Before *string
}

// Int returns a pointer to v, for filling ListOptions fields inline.
func Int(v int) *int { return &v }

// String returns a pointer to v, for filling ListOptions fields inline.
func String(v string) *string { return &v }

// mergeListOptions layers a per-call override on top of the session
// defaults. Defaults apply first; each non-nil override field replaces the
// default, and an override set to its zero value strips the field entirely.
func mergeListOptions(defaults ListOptions, override *ListOptions) ListOptions {
	out := defaults
	if override == nil {
		return out
	}
	if override.Limit != nil {
		out.Limit = override.Limit
		if *override.Limit == 0 {
			out.Limit = nil
		}
	}
	if override.Order != nil {
		out.Order = override.Order
		if *override.Order == "" {
			out.Order = nil
		}
	}
	if override.After != nil {
		out.After = override.After
		if *override.After == "" {
			out.After = nil
		}
	}
	if override.Before != nil {
		out.Before = override.Before
		if *override.Before == "" {
			out.Before = nil
		}
	}
	return out
}
