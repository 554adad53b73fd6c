package reconcile

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/pkg/errors"

	"github.com/rony4d/witgen/inter/claim"
)

var (
	// ErrInvalid means the claim does not match its proof.
	ErrInvalid = errors.New("claim does not match proof")
	// ErrMalformedOutput means the validator answered with something that
	// is not a claim.
	ErrMalformedOutput = errors.New("malformed validator output")
)

// KillGrace is how long a killed validator's output pipes may stay open.
// Programs spawned by the validator inherit them and are not waited for
// past this delay.
var KillGrace = 250 * time.Millisecond

// Input is what a cross-validation needs: both documents, on disk and parsed.
type Input struct {
	ProofPath string
	ClaimPath string
	Proof     *claim.ParticipantProof
	Claim     *claim.ClaimFile
}

// CrossValidator checks a claim against the participant proof it was built
// from and returns the validated claim, whose addresses are the ones that
// go into the genesis block. The returned claim may differ from the
// submitted one if the validator amends it.
type CrossValidator interface {
	CrossValidate(ctx context.Context, in Input) (*claim.ClaimFile, error)
}

// ProcessValidator runs an external program as `<Command> <Args...> <proof> <claim>`.
// A zero exit status accepts the claim; what the program prints on stdout,
// if anything, is taken as the validated claim.
type ProcessValidator struct {
	Command string
	Args    []string
}

// CrossValidate implements CrossValidator. The process is killed when ctx
// is done, in which case ctx.Err() is returned.
func (v ProcessValidator) CrossValidate(ctx context.Context, in Input) (*claim.ClaimFile, error) {
	args := append(append([]string(nil), v.Args...), in.ProofPath, in.ClaimPath)
	cmd := exec.CommandContext(ctx, v.Command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = KillGrace

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if _, ok := err.(*exec.ExitError); ok {
			return nil, errors.Wrapf(ErrInvalid, "%s: %s", err, bytes.TrimSpace(stderr.Bytes()))
		}
		return nil, errors.Wrapf(err, "failed to run %s", v.Command)
	}

	out := bytes.TrimSpace(stdout.Bytes())
	if len(out) == 0 {
		return in.Claim, nil
	}
	validated, err := claim.ParseClaimFile(out)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedOutput, err.Error())
	}
	return validated, nil
}
