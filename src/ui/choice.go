package ui

// Choice is one answer of a select prompt.
type Choice struct {
	Label   string
	Value   string
	Hint    string
	Checked bool
}

func (c Choice) Title() string       { return c.Label }
func (c Choice) Description() string { return c.Hint }
func (c Choice) FilterValue() string { return c.Label }
