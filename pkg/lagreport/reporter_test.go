package lagreport

import (
	"context"
	"testing"

	"kactor/pkg/kactor"
)

type fakeAssignmentSource struct {
	tps []kactor.TP
	err error
}

func (f fakeAssignmentSource) Assignment(ctx context.Context, listener *kactor.RebalanceListener) ([]kactor.TP, error) {
	return f.tps, f.err
}

func TestSnapshotOnceSkipsEmptyAssignment(t *testing.T) {
	r := &Reporter{
		actor:   fakeAssignmentSource{},
		groupID: "g1",
		log:     noopLogger{},
	}
	if err := r.snapshotOnce(context.Background()); err != nil {
		t.Fatalf("snapshotOnce with no assignment: %v", err)
	}
}
