package tdd

// Record is a sealed interface representing one decoded unit of the
// streamed chat response. The unexported marker method prevents external
// implementations.
type Record interface {
	record()
}

// RecordStart signals that the stream opened. Usage is nil when the server
// sent no counters.
type RecordStart struct {
	Usage *Usage
}

func (RecordStart) record() {}

// RecordToken is one incremental text fragment. InCode and Language are
// informational hints from the server; code regions are delimited by
// RecordCodeStart and RecordCodeEnd.
type RecordToken struct {
	Text     string
	Index    int
	Role     Role
	InCode   bool
	Language string
}

func (RecordToken) record() {}

// RecordCodeStart marks the beginning of a fenced code region.
type RecordCodeStart struct {
	Language string
}

func (RecordCodeStart) record() {}

// RecordCodeEnd marks the end of the current fenced code region.
type RecordCodeEnd struct{}

func (RecordCodeEnd) record() {}

// RecordError is a stream-level failure reported by the server.
type RecordError struct {
	Message string
	Code    string
}

func (RecordError) record() {}

// RecordDone is the terminal record of a successful stream.
type RecordDone struct {
	FinishReason FinishReason
}

func (RecordDone) record() {}

// Interface compliance checks.
var (
	_ Record = RecordStart{}
	_ Record = RecordToken{}
	_ Record = RecordCodeStart{}
	_ Record = RecordCodeEnd{}
	_ Record = RecordError{}
	_ Record = RecordDone{}
)
