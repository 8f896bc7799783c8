// internal/domain/homework/status.go
package homework

// Status is the review state of a submitted homework as reported by the API.
type Status string

const (
	StatusReviewing Status = "reviewing"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// verdicts maps every known status to the text shown in the chat.
var verdicts = map[Status]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// Verdict returns the verdict text for s and whether s is a known status.
func (s Status) Verdict() (string, bool) {
	v, ok := verdicts[s]
	return v, ok
}

