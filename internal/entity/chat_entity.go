package entity

// TranscriptEntry is one turn of the rolling chat transcript. The
// transcript is in-memory only and never survives a restart.
type TranscriptEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Citation is derived per response from the grounding metadata of the
// external service. Absent fields stay absent, they are never defaulted.
type Citation struct {
	Title string `json:"title,omitempty"`
	URI   string `json:"uri,omitempty"`
	Text  string `json:"text,omitempty"`
}
