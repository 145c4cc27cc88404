package domain

// PayloadPreview is a local summary of an upload payload, produced before
// any bytes leave the client.
type PayloadPreview struct {
	Kind       string     // "spreadsheet" or "text"
	Header     []string   // first row, spreadsheets only
	Rows       [][]string // up to a handful of data rows
	RowCount   int        // total data rows
	TextLength int        // characters, text payloads only
}
