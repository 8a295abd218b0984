package domain

// TurnRange is the span of annotated turns a unit covers within its source
// transcript. A zero value means the source carried no turn markers.
type TurnRange struct {
	First int
	Last  int
}

// DialogueUnit is the atomic retrievable record: one normalized phone-dialogue
// transcript with its embedding vector. Units are written by the indexer and
// immutable afterwards; re-indexing the same source replaces the whole record.
type DialogueUnit struct {
	ID     string
	Text   string
	Vector []float32
	Source string
	Turns  TurnRange
}

// ScoredUnit pairs a retrieved unit with its similarity to the query vector.
type ScoredUnit struct {
	Unit  DialogueUnit
	Score float64
}

// RetrievalResult is an ordered sequence of scored units, at most K long,
// in non-increasing score order with ties broken by store insertion order.
// Cosine scores lie in [-1, 1].
type RetrievalResult []ScoredUnit

// Citation identifies a unit that was actually included in the context fed to
// the generation service.
type Citation struct {
	ID    string
	Score float64
}

// AssembledContext is the budgeted, rank-ordered concatenation of retrieved
// unit texts, each tagged with its originating id.
type AssembledContext struct {
	Text      string
	Included  []Citation
	Truncated bool
}

// GroundedAnswer is the final output: generated prose plus the citations of
// the units that produced it. Citations are always a subset of the
// RetrievalResult that fed the same request.
type GroundedAnswer struct {
	AnswerText string
	Citations  []Citation
}
