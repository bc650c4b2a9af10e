package domain

// Kind identifies an entity type managed by the admin console.
//
// KindUser is the owner record; the remaining five are content kinds created
// by tenants.
type Kind string

const (
	KindUser       Kind = "users"
	KindProduct    Kind = "products"
	KindPrompt     Kind = "prompts"
	KindStack      Kind = "stacks"
	KindCollection Kind = "collections"
	KindAgent      Kind = "agents"
)

func (k Kind) String() string { return string(k) }

func (k Kind) IsValid() bool {
	switch k {
	case KindUser, KindProduct, KindPrompt, KindStack, KindCollection, KindAgent:
		return true
	}
	return false
}

// ContentKinds are the five tenant-created kinds, in display order.
// KindUser is excluded: owners are listed and mutated through the same
// operations but never counted as content.
func ContentKinds() []Kind {
	return []Kind{KindProduct, KindPrompt, KindStack, KindCollection, KindAgent}
}

// ParseKind validates a client-supplied kind string.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", NewValidationError("kind", "unknown entity kind: "+s)
	}
	return k, nil
}
