package host

import (
	"bytes"
	"context"
	"io"
	"os/exec"

	"golang.org/x/sync/errgroup"

	"c0/internal/ub"
)

// Invoker is the contract the build pipeline uses to run toolchain
// children (llvm-as, lld-link). The core only depends on this
// interface; tests substitute a fake.
type Invoker interface {
	// Invoke runs the tool at path with args, writing stdin to the
	// child and returning its combined stdout.
	Invoke(ctx context.Context, prim ub.HostPrim, path string, args []string, stdin []byte) ([]byte, error)
}

// ExecInvoker runs children with os/exec. A worker drains the child's
// stdout while the parent writes stdin, then both are joined: a child
// that fills its stdout pipe while the parent is still writing would
// otherwise deadlock.
type ExecInvoker struct{}

func (ExecInvoker) Invoke(ctx context.Context, prim ub.HostPrim, path string, args []string, stdin []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	in, err := cmd.StdinPipe()
	if err != nil {
		ub.HostPrimFail(prim, true)
		return nil, err
	}
	out, err := cmd.StdoutPipe()
	if err != nil {
		ub.HostPrimFail(prim, true)
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		ub.HostPrimFail(prim, true)
		return nil, err
	}

	var stdout bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		_, copyErr := io.Copy(&stdout, out)
		return copyErr
	})
	_, writeErr := in.Write(stdin)
	closeErr := in.Close()
	drainErr := g.Wait()
	waitErr := cmd.Wait()

	for _, e := range []error{writeErr, closeErr, drainErr, waitErr} {
		if e != nil {
			ub.HostPrimFail(prim, true)
			return stdout.Bytes(), e
		}
	}
	return stdout.Bytes(), nil
}
