package deck

// ChartBlock is a tabular chart: a chart type tag plus label/value rows.
type ChartBlock struct {
	ChartType string     `json:"chart_type,omitempty"` // bar, line, pie, ...
	Rows      []ChartRow `json:"rows"`
}

// ChartRow is a single label/value pair.
type ChartRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// AddRow appends a row to the chart.
func (c *ChartBlock) AddRow(label, value string) {
	c.Rows = append(c.Rows, ChartRow{Label: label, Value: value})
}
