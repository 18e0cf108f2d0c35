package domain

// KeyPrefix namespaces every key the service writes to a shared KV store.
const KeyPrefix = "ementa:"

// Column names of the decision file format.
const (
	ColumnID      = "ID_Decisao"
	ColumnCourt   = "Tribunal"
	ColumnSummary = "Ementa"
	ColumnOutcome = "Resultado"
	ColumnDate    = "Data"
	ColumnLink    = "Link"
)

// RequiredColumns lists the columns every uploaded file must carry, in display order.
func RequiredColumns() []string {
	return []string{ColumnID, ColumnCourt, ColumnSummary, ColumnOutcome}
}
