package translator

// TranslatorConfig configures a translation.
type TranslatorConfig = struct {
	// Entry overrides the entry function of the program when not empty.
	Entry string
	// Metrics enables gathering of translation metrics.
	Metrics bool
	// Log enables logging of every translation step.
	Log bool
}
