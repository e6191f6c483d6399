package des

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Environment", func() {
	var env *Environment

	BeforeEach(func() {
		env = NewEnvironment()
	})

	It("starts at time 0 by default", func() {
		Expect(env.Now()).To(Equal(Time(0)))
	})

	It("honors WithInitialTime", func() {
		env = NewEnvironment(WithInitialTime(100))
		Expect(env.Now()).To(Equal(Time(100)))
	})

	It("reports +Inf from Peek when nothing is scheduled", func() {
		Expect(float64(env.Peek())).To(Equal(math.Inf(1)))
	})

	It("rejects scheduling with a negative delay", func() {
		e := env.NewEvent()
		err := env.Schedule(e, Normal, -1)
		Expect(IsKind(err, NegativeDelay)).To(BeTrue())
	})

	It("is a no-op re-scheduling an already-scheduled event", func() {
		e := env.NewEvent()
		Expect(env.Schedule(e, Normal, 1)).NotTo(HaveOccurred())
		Expect(env.Schedule(e, Normal, 5)).NotTo(HaveOccurred())
		Expect(env.Len()).To(Equal(1))
	})

	It("advances the clock monotonically as it steps", func() {
		a := env.NewEvent()
		b := env.NewEvent()
		_ = env.Schedule(a, Normal, 3)
		_ = env.Schedule(b, Normal, 1)

		Expect(env.Step()).NotTo(HaveOccurred())
		Expect(env.Now()).To(Equal(Time(1)))

		Expect(env.Step()).NotTo(HaveOccurred())
		Expect(env.Now()).To(Equal(Time(3)))
	})

	It("returns EmptyQueue from Step once nothing remains", func() {
		err := env.Step()
		Expect(IsKind(err, EmptyQueue)).To(BeTrue())
	})

	It("Run(nil) drains the queue and returns nil", func() {
		e := env.NewEvent()
		_ = env.Schedule(e, Normal, 1)
		Expect(env.Run(nil)).NotTo(HaveOccurred())
		Expect(env.Len()).To(Equal(0))
	})

	It("Run(Time) stops at the given time, leaving later events unprocessed", func() {
		late := env.NewEvent()
		_ = env.Schedule(late, Normal, 100)

		Expect(env.Run(Time(10))).NotTo(HaveOccurred())
		Expect(env.Now()).To(BeNumerically("<=", Time(10)))
		Expect(late.Processed()).To(BeFalse())
	})

	It("Run(Event) stops once the given event triggers", func() {
		stopper := env.NewEvent()
		_ = env.Schedule(stopper, Normal, 5)

		late := env.NewEvent()
		_ = env.Schedule(late, Normal, 100)

		Expect(env.Run(stopper)).NotTo(HaveOccurred())
		Expect(late.Processed()).To(BeFalse())
	})
})
