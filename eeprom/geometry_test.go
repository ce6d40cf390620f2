package eeprom

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Geometry", func() {
	It("should accept the reference geometry", func() {
		Expect(DefaultGeometry.Validate()).To(Succeed())
		Expect(DefaultGeometry.Capacity()).To(Equal(2048))
		Expect(DefaultGeometry.PageShift()).To(Equal(uint(3)))
	})

	DescribeTable("invalid geometries",
		func(g Geometry) {
			err := g.Validate()
			Expect(errors.Is(err, ErrInvalidGeometry)).To(BeTrue())
		},
		Entry("page size not a power of two",
			Geometry{PageSize: 12, PageCount: 16, AddressWidth: 2}),
		Entry("zero page size",
			Geometry{PageSize: 0, PageCount: 16, AddressWidth: 2}),
		Entry("zero page count",
			Geometry{PageSize: 8, PageCount: 0, AddressWidth: 2}),
		Entry("zero address width",
			Geometry{PageSize: 8, PageCount: 16, AddressWidth: 0}),
		Entry("address width too large",
			Geometry{PageSize: 8, PageCount: 16, AddressWidth: 5}),
		Entry("capacity beyond one address byte",
			Geometry{PageSize: 16, PageCount: 32, AddressWidth: 1}),
	)

	It("should accept a device filling its address width exactly", func() {
		g := Geometry{PageSize: 16, PageCount: 16, AddressWidth: 1}

		Expect(g.Validate()).To(Succeed())
	})

	It("should combine page and offset into a memory address", func() {
		Expect(DefaultGeometry.MemoryAddress(3, 0)).To(Equal(uint32(24)))
		Expect(DefaultGeometry.MemoryAddress(4, 5)).To(Equal(uint32(37)))
		Expect(DefaultGeometry.MemoryAddress(255, 7)).To(Equal(uint32(2047)))

		g := Geometry{PageSize: 64, PageCount: 512, AddressWidth: 2}
		Expect(g.MemoryAddress(2, 1)).To(Equal(uint32(129)))
	})

	DescribeTable("range checks",
		func(page, offset, size int, ok bool) {
			err := DefaultGeometry.CheckRange(page, offset, size)
			if ok {
				Expect(err).NotTo(HaveOccurred())
				return
			}

			Expect(errors.Is(err, ErrOutOfRange)).To(BeTrue())

			var rangeErr *RangeError
			Expect(errors.As(err, &rangeErr)).To(BeTrue())
			Expect(rangeErr.Page).To(Equal(page))
			Expect(rangeErr.Offset).To(Equal(offset))
			Expect(rangeErr.Size).To(Equal(size))
		},
		Entry("first byte", 0, 0, 1, true),
		Entry("whole device", 0, 0, 2048, true),
		Entry("last byte", 255, 7, 1, true),
		Entry("empty request", 10, 3, 0, true),
		Entry("negative page", -1, 0, 1, false),
		Entry("page past the end", 256, 0, 1, false),
		Entry("negative offset", 0, -1, 1, false),
		Entry("offset past the page", 0, 8, 1, false),
		Entry("negative size", 0, 0, -1, false),
		Entry("runs past the last page", 255, 4, 5, false),
		Entry("size that wraps around", 255, 7, math.MaxInt, false),
		Entry("largest size from the start", 0, 0, math.MaxInt, false),
	)
})
