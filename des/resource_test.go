package des

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Resource", func() {
	var env *Environment

	BeforeEach(func() {
		env = NewEnvironment()
	})

	It("rejects a non-positive capacity", func() {
		_, err := NewResource(env, 0)
		Expect(IsKind(err, CapacityViolation)).To(BeTrue())
	})

	It("rejects a non-positive Get amount", func() {
		r, _ := NewResource(env, 1)
		_, err := r.Get(0)
		Expect(IsKind(err, CapacityViolation)).To(BeTrue())
	})

	It("rejects a non-positive Put amount", func() {
		r, _ := NewResource(env, 1)
		_, err := r.Put(0)
		Expect(IsKind(err, CapacityViolation)).To(BeTrue())
	})

	It("grants a Get immediately while under capacity", func() {
		r, _ := NewResource(env, 1)
		req, err := r.Request()
		Expect(err).NotTo(HaveOccurred())
		Expect(req.Triggered()).To(BeTrue())
		Expect(r.Users()).To(Equal(1))
	})

	It("grants a multi-unit Get against a Resource with enough free capacity", func() {
		r, _ := NewResource(env, 5)
		req, err := r.Get(3)
		Expect(err).NotTo(HaveOccurred())
		Expect(req.Triggered()).To(BeTrue())
		Expect(req.Amount()).To(Equal(3))
		Expect(r.Users()).To(Equal(3))
	})

	It("queues a Get past capacity and grants it FIFO once a slot frees", func() {
		r, _ := NewResource(env, 1)

		first, _ := r.Request()
		second, _ := r.Request()
		third, _ := r.Request()

		Expect(first.Triggered()).To(BeTrue())
		Expect(second.Triggered()).To(BeFalse())
		Expect(third.Triggered()).To(BeFalse())
		Expect(r.Queue()).To(Equal(2))

		_, err := r.Release()
		Expect(err).NotTo(HaveOccurred())
		Expect(env.Run(nil)).NotTo(HaveOccurred())
		Expect(second.Triggered()).To(BeTrue())
		Expect(third.Triggered()).To(BeFalse())
		Expect(r.Queue()).To(Equal(1))

		_, err = r.Release()
		Expect(err).NotTo(HaveOccurred())
		Expect(env.Run(nil)).NotTo(HaveOccurred())
		Expect(third.Triggered()).To(BeTrue())
		Expect(r.Queue()).To(Equal(0))
	})

	It("queues a multi-unit Get that exceeds free capacity and grants it on a later release", func() {
		r, _ := NewResource(env, 3)

		first, _ := r.Get(2)
		second, _ := r.Get(2)

		Expect(first.Triggered()).To(BeTrue())
		Expect(second.Triggered()).To(BeFalse())
		Expect(r.Users()).To(Equal(2))

		_, err := r.Put(1)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Triggered()).To(BeFalse())
		Expect(r.Users()).To(Equal(1))

		_, err = r.Put(1)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Triggered()).To(BeTrue())
		Expect(r.Users()).To(Equal(2))
	})

	It("frees a blocked Put once enough units have been acquired through the event loop", func() {
		r, _ := NewResource(env, 5)

		env.Process(func(ctx *ProcessContext) (interface{}, error) {
			req, err := r.Get(2)
			if err != nil {
				return nil, err
			}
			if _, err := ctx.Yield(req); err != nil {
				return nil, err
			}

			put, err := r.Put(3)
			if err != nil {
				return nil, err
			}

			more, err := r.Get(1)
			if err != nil {
				return nil, err
			}
			if _, err := ctx.Yield(more); err != nil {
				return nil, err
			}

			_, err = ctx.Yield(put)
			return nil, err
		})

		Expect(env.Run(nil)).NotTo(HaveOccurred())
		Expect(r.Users()).To(Equal(0))
	})

	It("lets a waiting Get cancel itself", func() {
		r, _ := NewResource(env, 1)
		_, _ = r.Request()
		second, _ := r.Request()

		Expect(second.Triggered()).To(BeFalse())
		Expect(second.Cancel()).NotTo(HaveOccurred())
		Expect(r.Queue()).To(Equal(0))
	})

	It("cannot cancel a Get that has already triggered", func() {
		r, _ := NewResource(env, 1)
		req, _ := r.Request()
		Expect(req.Cancel()).To(HaveOccurred())
	})

	It("serves processes contending for a Resource in FIFO arrival order", func() {
		r, _ := NewResource(env, 1)
		var finishOrder []int

		for i := 0; i < 3; i++ {
			i := i
			env.Process(func(ctx *ProcessContext) (interface{}, error) {
				req, err := r.Request()
				if err != nil {
					return nil, err
				}
				if _, err := ctx.Yield(req); err != nil {
					return nil, err
				}

				t, _ := env.Timeout(1, nil)
				if _, err := ctx.Yield(t); err != nil {
					return nil, err
				}

				finishOrder = append(finishOrder, i)
				_, err = r.Release()
				return nil, err
			})
		}

		Expect(env.Run(nil)).NotTo(HaveOccurred())
		Expect(finishOrder).To(Equal([]int{0, 1, 2}))
	})
})
