package constants

/*
	Defines a set of base level
	constants and enums to be used
	throughout Helix and it's
	associated services.
*/
type Organism string
type OutputType string
type InputKind string
type CommandVerb string
type RequestAction string

type SessionMode int
