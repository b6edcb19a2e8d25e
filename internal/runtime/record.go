package runtime

import (
	"fmt"

	"github.com/aretw0/interviewer/pkg/domain"
)

// Record closes one exchange: it bumps the session turn counter and appends
// the matching Turn to the ledger. It is the only place TurnCount changes.
func Record(s *domain.Session, ledger *domain.Ledger, interviewer, candidate string, verdict domain.Verdict) (domain.Turn, error) {
	if s.TurnCount != ledger.Len() {
		return domain.Turn{}, fmt.Errorf("%w: session at turn %d, ledger holds %d", domain.ErrLedgerOutOfOrder, s.TurnCount, ledger.Len())
	}

	turn := domain.Turn{
		TurnID:             s.TurnCount + 1,
		InterviewerMessage: interviewer,
		CandidateMessage:   candidate,
		Verdict:            verdict,
	}
	if err := ledger.Append(turn); err != nil {
		return domain.Turn{}, err
	}
	s.TurnCount = turn.TurnID
	return turn, nil
}
