package domain

// Defaults shared by the engine, the config layer and the CLI.
const (
	DefaultMaxTurns        = 8
	DefaultParticipantName = "candidate"

	DefaultClassifierTemperature  = 0.2
	DefaultInterviewerTemperature = 0.4
	DefaultFeedbackTemperature    = 0.3
	DefaultCandidateTemperature   = 0.8

	// DefaultGreetingTemplate is rendered with the Session as data.
	DefaultGreetingTemplate = "Привет! Ты претендуешь на позицию {{.TargetGrade}} {{.Position}}. Расскажи про себя и про свой опыт."
)

// DefaultStopKeywords returns the stop phrases matched against candidate input.
// The first entry doubles as the canonical stop message.
func DefaultStopKeywords() []string {
	return []string{"стоп", "exit"}
}
