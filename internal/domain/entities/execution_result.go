package entities

// Fixed artifact names written by the engine into the workspace root.
const (
	OutputArtifactName = "output.xml"
	LogArtifactName    = "log.html"
	ReportArtifactName = "report.html"
)

// Artifacts holds the three engine output files; a missing file is an empty slice.
type Artifacts struct {
	OutputXML  []byte
	LogHTML    []byte
	ReportHTML []byte
}

// ExecutionResult is what the server returns for one run.
type ExecutionResult struct {
	StdOutErr  []byte `json:"std_out_err"`
	OutputXML  []byte `json:"output_xml"`
	LogHTML    []byte `json:"log_html"`
	ReportHTML []byte `json:"report_html"`
	RetCode    int    `json:"ret_code"`
}

// NewExecutionResult assembles a result from the captured console stream and the collected artifacts.
func NewExecutionResult(console []byte, artifacts Artifacts, retCode int) *ExecutionResult {
	return &ExecutionResult{
		StdOutErr:  nonNil(console),
		OutputXML:  nonNil(artifacts.OutputXML),
		LogHTML:    nonNil(artifacts.LogHTML),
		ReportHTML: nonNil(artifacts.ReportHTML),
		RetCode:    retCode,
	}
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
