package profile

// Example is one sample invocation attached to a profile: the request a
// user might make, the agent the author expects it to route to, and why.
type Example struct {
	Request   string `json:"request"`
	Dispatch  string `json:"dispatch"`
	Rationale string `json:"rationale"`
}

// Profile is the immutable parsed form of one agent definition.
// The dispatcher only reads Name, TriggerDescription and Examples;
// Persona is opaque and handed to the execution adapter unmodified.
type Profile struct {
	Name               string
	TriggerDescription string
	Examples           []Example
	Persona            string
	Tier               string
	Affinity           string
}

// Summary is the introspection view of a profile: identity plus trigger,
// without the persona body.
type Summary struct {
	Name               string `json:"name"`
	TriggerDescription string `json:"trigger_description"`
}

func (p *Profile) Summary() Summary {
	return Summary{Name: p.Name, TriggerDescription: p.TriggerDescription}
}
