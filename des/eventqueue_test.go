package des

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("priorityQueue", func() {
	var q *priorityQueue

	BeforeEach(func() {
		q = newPriorityQueue()
	})

	It("pops in ascending time order", func() {
		q.push(3, Normal, nil)
		q.push(1, Normal, nil)
		q.push(2, Normal, nil)

		Expect(q.pop().Time).To(Equal(Time(1)))
		Expect(q.pop().Time).To(Equal(Time(2)))
		Expect(q.pop().Time).To(Equal(Time(3)))
	})

	It("breaks time ties by priority, Urgent before Normal", func() {
		q.push(5, Normal, nil)
		q.push(5, Urgent, nil)

		Expect(q.pop().Priority).To(Equal(Urgent))
		Expect(q.pop().Priority).To(Equal(Normal))
	})

	It("breaks time and priority ties by insertion order", func() {
		first := q.push(5, Normal, nil)
		second := q.push(5, Normal, nil)
		third := q.push(5, Normal, nil)

		Expect(q.pop()).To(Equal(first))
		Expect(q.pop()).To(Equal(second))
		Expect(q.pop()).To(Equal(third))
	})

	It("reports +Inf when empty", func() {
		Expect(float64(q.peekTime())).To(Equal(math.Inf(1)))
	})

	It("returns nil from pop when empty", func() {
		Expect(q.pop()).To(BeNil())
	})

	It("reports its size", func() {
		Expect(q.size()).To(Equal(0))
		q.push(0, Normal, nil)
		q.push(1, Normal, nil)
		Expect(q.size()).To(Equal(2))
	})
})
