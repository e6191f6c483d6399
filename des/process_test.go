package des

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Process", func() {
	var env *Environment

	BeforeEach(func() {
		env = NewEnvironment()
	})

	It("runs synchronously up to its first yield, then resumes on schedule", func() {
		var resumedAt Time

		p := env.Process(func(ctx *ProcessContext) (interface{}, error) {
			t, err := env.Timeout(10, "done")
			if err != nil {
				return nil, err
			}
			v, err := ctx.Yield(t)
			resumedAt = env.Now()
			return v, err
		})

		Expect(env.Run(nil)).NotTo(HaveOccurred())
		Expect(resumedAt).To(Equal(Time(10)))
		Expect(p.Ok()).To(BeTrue())
		Expect(p.Value()).To(Equal("done"))
	})

	It("resolves a yield on an event that was already Processed earlier", func() {
		e := env.NewEvent()
		_, _ = e.Succeed("instant")
		Expect(env.Step()).NotTo(HaveOccurred())
		Expect(e.Processed()).To(BeTrue())

		p := env.Process(func(ctx *ProcessContext) (interface{}, error) {
			return ctx.Yield(e)
		})

		Expect(env.Run(nil)).NotTo(HaveOccurred())
		Expect(p.Value()).To(Equal("instant"))
	})

	It("can be yielded on by another process, as an Event", func() {
		child := env.Process(func(ctx *ProcessContext) (interface{}, error) {
			t, _ := env.Timeout(5, "child done")
			return ctx.Yield(t)
		})

		var parentResult interface{}
		env.Process(func(ctx *ProcessContext) (interface{}, error) {
			v, err := ctx.Yield(child)
			parentResult = v
			return v, err
		})

		Expect(env.Run(nil)).NotTo(HaveOccurred())
		Expect(parentResult).To(Equal("child done"))
	})

	It("delivers a failed yield as an explicit error, not a panic", func() {
		fail := env.NewEvent()
		_, _ = fail.Fail(NewError(CapacityViolation, "denied", nil))

		var gotErr error
		env.Process(func(ctx *ProcessContext) (interface{}, error) {
			_, err := ctx.Yield(fail)
			gotErr = err
			return nil, nil
		})

		Expect(env.Run(nil)).NotTo(HaveOccurred())
		Expect(IsKind(gotErr, CapacityViolation)).To(BeTrue())
	})

	It("fails the Process's own event when its body returns an error", func() {
		boom := NewError(CapacityViolation, "boom", nil)
		p := env.Process(func(ctx *ProcessContext) (interface{}, error) {
			return nil, boom
		})

		Expect(env.Run(nil)).To(Equal(boom))
		Expect(p.Ok()).To(BeFalse())
		Expect(p.Err()).To(Equal(boom))
	})

	It("wakes an interrupted process with an Interrupted failure", func() {
		var gotErr error
		var gotCause interface{}

		p := env.Process(func(ctx *ProcessContext) (interface{}, error) {
			t, _ := env.Timeout(100, nil)
			_, err := ctx.Yield(t)
			gotErr = err
			if e, ok := err.(*Error); ok {
				gotCause = e.Cause
			}
			return nil, nil
		})

		interruptor := env.NewEvent()
		interruptor.addCallback(func(Event) error {
			return p.Interrupt("urgent")
		})
		_ = env.Schedule(interruptor, Normal, 1)

		Expect(env.Run(nil)).NotTo(HaveOccurred())
		Expect(IsKind(gotErr, Interrupted)).To(BeTrue())
		Expect(gotCause).To(Equal("urgent"))
	})

	It("delivers an interrupt raised before the process has started at its first yield", func() {
		p := env.Process(func(ctx *ProcessContext) (interface{}, error) {
			t, _ := env.Timeout(100, nil)
			_, err := ctx.Yield(t)
			if ierr, ok := err.(*Error); ok && ierr.Kind == Interrupted {
				return ierr.Cause, nil
			}
			return nil, err
		})

		Expect(p.Interrupt("boom")).NotTo(HaveOccurred())

		Expect(env.Run(p)).NotTo(HaveOccurred())
		Expect(env.Now()).To(Equal(Time(0)))
		Expect(p.Ok()).To(BeTrue())
		Expect(p.Value()).To(Equal("boom"))
	})

	It("fails to interrupt a process that has already completed", func() {
		p := env.Process(func(ctx *ProcessContext) (interface{}, error) {
			return nil, nil
		})

		Expect(env.Run(nil)).NotTo(HaveOccurred())
		Expect(p.Processed()).To(BeTrue())

		err := p.Interrupt("too late")
		Expect(IsKind(err, Interrupted)).To(BeTrue())
	})
})
