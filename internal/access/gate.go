package access

// CanView reports whether the profile may read module content.
// A nil profile fails closed: authorization is resolved server side before
// any gating decision, so there is no "still loading" state to be lenient
// about.
func CanView(p *Profile, m Module) bool {
	switch p.Level(m) {
	case LevelReader, LevelEditor:
		return true
	default:
		return false
	}
}

// CanEdit reports whether the profile may mutate module content.
// Editor implies every reader capability, so CanEdit(p, m) ⇒ CanView(p, m).
func CanEdit(p *Profile, m Module) bool {
	return p.Level(m) == LevelEditor
}

// IsManager reports whether the profile may administer other profiles.
// The manager flag does not bypass per-module levels.
func IsManager(p *Profile) bool {
	return p != nil && p.Manager
}
