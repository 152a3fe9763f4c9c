package executor_test

import (
	"context"
	"errors"
	"os/exec"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/crabcrust/internal/anim"
	"github.com/san-kum/crabcrust/internal/effects"
	"github.com/san-kum/crabcrust/internal/executor"
	"github.com/san-kum/crabcrust/internal/term"
)

type fakeProcess struct {
	wait func() (executor.Output, error)
}

func (p fakeProcess) Wait() (executor.Output, error) { return p.wait() }

type fakeSpawner struct {
	mu    sync.Mutex
	calls int
	proc  executor.Process
	err   error
}

func (s *fakeSpawner) Start(name string, args []string) (executor.Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.proc, s.err
}

var _ = Describe("Result", func() {
	DescribeTable("CombinedOutput",
		func(stdout, stderr, want string) {
			r := executor.Result{Stdout: stdout, Stderr: stderr}
			Expect(r.CombinedOutput()).To(Equal(want))
		},
		Entry("stdout only", "out\n", "", "out\n"),
		Entry("stderr only", "", "err\n", "err\n"),
		Entry("both, stdout terminated", "out\n", "err\n", "out\nerr\n"),
		Entry("both, stdout unterminated", "out", "err", "out\nerr"),
		Entry("neither", "", "", ""),
	)
})

var _ = Describe("Executor", func() {
	var e *executor.Executor

	BeforeEach(func() {
		e = executor.New()
	})

	Describe("Run", func() {
		It("captures stdout and a zero exit", func() {
			res, err := e.Run("sh", "-c", "echo hello")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Success).To(BeTrue())
			Expect(res.ExitCode).To(Equal(0))
			Expect(res.Stdout).To(Equal("hello\n"))
			Expect(res.Command).To(Equal("sh"))
		})

		It("reports a non-zero exit as a result, not an error", func() {
			res, err := e.Run("sh", "-c", "echo oops >&2; exit 3")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Success).To(BeFalse())
			Expect(res.ExitCode).To(Equal(3))
			Expect(res.Stderr).To(Equal("oops\n"))
			Expect(res.CombinedOutput()).To(Equal("oops\n"))
		})

		It("fails at once when the program does not exist", func() {
			_, err := e.Run("crabcrust-definitely-not-a-program")
			Expect(err).To(MatchError(executor.ErrSpawn))
			Expect(errors.Is(err, exec.ErrNotFound)).To(BeTrue())

			var se *executor.SpawnError
			Expect(errors.As(err, &se)).To(BeTrue())
			Expect(se.Command).To(Equal("crabcrust-definitely-not-a-program"))
		})
	})

	Describe("RunConcurrent", func() {
		It("returns before the command finishes and eventually completes", func() {
			h, err := e.RunConcurrent("sh", "-c", "sleep 0.3; echo late")
			Expect(err).NotTo(HaveOccurred())
			Expect(h.IsDone()).To(BeFalse())

			Eventually(h.IsDone).WithTimeout(5 * time.Second).WithPolling(10 * time.Millisecond).Should(BeTrue())
			Eventually(h.Done()).Should(BeClosed())

			first, err := h.Wait()
			Expect(err).NotTo(HaveOccurred())
			second, err := h.Wait()
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
			Expect(first.Stdout).To(Equal("late\n"))
			Expect(first.Duration).To(BeNumerically(">=", 300*time.Millisecond))
		})

		It("surfaces spawn failures synchronously", func() {
			h, err := e.RunConcurrent("crabcrust-definitely-not-a-program", "x")
			Expect(err).To(MatchError(executor.ErrSpawn))
			Expect(h).To(BeNil())
		})

		It("keeps the exit code of failing commands", func() {
			h, err := e.RunConcurrent("sh", "-c", "exit 7")
			Expect(err).NotTo(HaveOccurred())
			res, err := h.Wait()
			Expect(err).NotTo(HaveOccurred())
			Expect(res.ExitCode).To(Equal(7))
			Expect(res.Success).To(BeFalse())
			Expect(h.IsDone()).To(BeTrue())
		})
	})

	Describe("with a fake spawner", func() {
		It("turns a worker panic into an error instead of hanging", func() {
			s := &fakeSpawner{proc: fakeProcess{wait: func() (executor.Output, error) {
				panic("pipe exploded")
			}}}
			e = executor.New(executor.WithSpawner(s))

			h, err := e.RunConcurrent("git", "push")
			Expect(err).NotTo(HaveOccurred())

			done := make(chan error, 1)
			go func() {
				_, err := h.Wait()
				done <- err
			}()

			var waitErr error
			Eventually(done).WithTimeout(2 * time.Second).Should(Receive(&waitErr))
			Expect(waitErr).To(MatchError(executor.ErrWorkerPanic))

			var pe *executor.PanicError
			Expect(errors.As(waitErr, &pe)).To(BeTrue())
			Expect(pe.Value).To(Equal("pipe exploded"))
			Expect(pe.Stack).NotTo(BeEmpty())
			Expect(h.IsDone()).To(BeTrue())

			_, again := h.Wait()
			Expect(again).To(Equal(waitErr))
		})

		It("publishes the result before the done flag", func() {
			release := make(chan struct{})
			s := &fakeSpawner{proc: fakeProcess{wait: func() (executor.Output, error) {
				<-release
				return executor.Output{Stdout: "payload"}, nil
			}}}
			e = executor.New(executor.WithSpawner(s))

			h, err := e.RunConcurrent("git", "fetch")
			Expect(err).NotTo(HaveOccurred())
			Consistently(h.IsDone).WithTimeout(50 * time.Millisecond).Should(BeFalse())

			close(release)
			Eventually(h.IsDone).Should(BeTrue())
			res, err := h.Wait()
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Stdout).To(Equal("payload"))
			Expect(res.Success).To(BeTrue())
		})

		It("wraps wait failures", func() {
			boom := errors.New("read failed")
			s := &fakeSpawner{proc: fakeProcess{wait: func() (executor.Output, error) {
				return executor.Output{ExitCode: -1}, boom
			}}}
			e = executor.New(executor.WithSpawner(s))

			res, err := e.Run("git", "log")
			Expect(err).To(MatchError(boom))
			Expect(res.Success).To(BeFalse())
		})

		It("wraps spawn errors from any spawner", func() {
			s := &fakeSpawner{err: errors.New("no fork for you")}
			e = executor.New(executor.WithSpawner(s))

			_, err := e.RunConcurrent("git", "status")
			Expect(err).To(MatchError(executor.ErrSpawn))
			Expect(err.Error()).To(ContainSubstring("no fork for you"))
			Expect(s.calls).To(Equal(1))
		})
	})
})

var _ = Describe("Spinner racing a command", func() {
	It("stops as soon as the command exits", func() {
		v := term.NewVirtual(40, 24)
		p, err := anim.Open(v, term.Inline(5))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(p.Close)

		h, err := executor.New().RunConcurrent("sh", "-c", "sleep 0.1; echo finished")
		Expect(err).NotTo(HaveOccurred())

		start := time.Now()
		ok, err := p.PlayUntil(context.Background(), effects.NewSpinner(), 500*time.Millisecond, h.IsDone)
		elapsed := time.Since(start)

		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(p.Stats().State).To(Equal(anim.Completed))
		Expect(elapsed).To(BeNumerically(">=", 100*time.Millisecond))
		Expect(elapsed).To(BeNumerically("<", 450*time.Millisecond))
		Expect(p.Stats().Frames).To(BeNumerically(">", 0))

		res, err := h.Wait()
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Success).To(BeTrue())
		Expect(res.Stdout).To(Equal("finished\n"))
	})

	It("times out without killing the command", func() {
		v := term.NewVirtual(40, 24)
		p, err := anim.Open(v, term.Inline(5))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(p.Close)

		h, err := executor.New().RunConcurrent("sh", "-c", "sleep 0.4; echo survived")
		Expect(err).NotTo(HaveOccurred())

		ok, err := p.PlayUntil(context.Background(), effects.NewSpinner(), 100*time.Millisecond, h.IsDone)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
		Expect(p.Stats().State).To(Equal(anim.TimedOut))
		Expect(h.IsDone()).To(BeFalse())

		res, err := h.Wait()
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Stdout).To(Equal("survived\n"))
	})
})
