package agent

// Routes produced by the intent router.
const (
	RouteDocQA        = "doc_qa"
	RouteScriptEditor = "script_editor"
	RouteGeneral      = "general"
)

// Source identifies a documentation topic that contributed to an answer.
type Source struct {
	Title     string `json:"title"`
	Path      string `json:"path"`
	TopicType string `json:"topic_type"`
}

// Result is the outcome of one full graph run.
type Result struct {
	Route   string   `json:"route"`
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources,omitempty"`
}

// Event types emitted during a streaming run.
const (
	EventToken   = "token"
	EventSources = "sources"
	EventError   = "error"
	EventDone    = "done"
)

// Event is one unit of streaming output.
type Event struct {
	Type    string   `json:"type"`
	Content string   `json:"content,omitempty"`
	Sources []Source `json:"sources,omitempty"`
}

// EventFunc receives streaming events in order. Returning an error
// aborts the run.
type EventFunc func(Event) error
