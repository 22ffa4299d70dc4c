package extract

import "go-dgpa-watcher/internal/models"

// Result is the output of one extraction pass.
type Result struct {
	Postings []models.JobPosting   `json:"postings"`
	Unparsed []models.UnparsedLine `json:"unparsed"`
	// Rows is the number of normalized rows that reached the matcher.
	Rows       int  `json:"rows"`
	TableFound bool `json:"table_found"`
}

// assembler collects per-row outcomes. Rows are fed in order, so appending keeps
// postings in source order.
type assembler struct {
	rows     int
	postings []models.JobPosting
	unparsed []models.UnparsedLine
}

func newAssembler(rows int) *assembler {
	return &assembler{
		rows:     rows,
		postings: make([]models.JobPosting, 0, rows),
		unparsed: make([]models.UnparsedLine, 0),
	}
}

func (a *assembler) addPosting(p models.JobPosting) {
	a.postings = append(a.postings, p)
}

func (a *assembler) addUnparsed(u models.UnparsedLine) {
	a.unparsed = append(a.unparsed, u)
}

func (a *assembler) result() Result {
	return Result{
		Postings:   a.postings,
		Unparsed:   a.unparsed,
		Rows:       a.rows,
		TableFound: true,
	}
}
