package eeprom

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math/rand"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/eeprom/simdevice"
)

type parentRecorder struct {
	parents []uint64
}

func (r *parentRecorder) Func(ctx HookCtx) {
	if ctx.Pos != HookPosTransactionStart {
		return
	}

	r.parents = append(r.parents, uint64(ctx.Item.(Transaction).ParentID))
}

var _ = Describe("Driver on a simulated device", func() {
	var (
		clock  *simdevice.ManualClock
		device *simdevice.Device
		driver *Driver
	)

	BeforeEach(func() {
		clock = simdevice.NewManualClock(time.Unix(0, 0))
		device = simdevice.MakeBuilder().
			WithWriteCycle(DefaultWriteCycle).
			WithClock(clock).
			Build()

		var err error
		driver, err = MakeBuilder().
			WithTransport(device).
			WithDelayer(clock).
			Build("EEPROM")
		Expect(err).NotTo(HaveOccurred())
	})

	It("should read back what was written", func() {
		r := rand.New(rand.NewSource(7))
		g := driver.Geometry()

		for i := 0; i < 200; i++ {
			page := r.Intn(g.PageCount)
			offset := r.Intn(g.PageSize)
			size := r.Intn(64)
			if page*g.PageSize+offset+size > g.Capacity() {
				continue
			}

			data := make([]byte, size)
			r.Read(data)

			Expect(driver.Write(page, offset, data, size)).To(Succeed())

			buf := make([]byte, size)
			Expect(driver.Read(page, offset, buf, size)).To(Succeed())
			Expect(buf).To(Equal(data))
		}
	})

	It("should never let a write transaction cross a page", func() {
		Expect(driver.Write(10, 5, bytes.Repeat([]byte{0x5a}, 40), 40)).
			To(Succeed())

		for _, txn := range device.Transactions() {
			inPage := int(txn.Address) % 8
			Expect(inPage + len(txn.Data)).To(BeNumerically("<=", 8))
		}
	})

	It("should store the reference record at page 3", func() {
		Expect(driver.Write(3, 0, seq(0, 16), 16)).To(Succeed())

		txns := device.Transactions()
		Expect(txns).To(HaveLen(2))
		Expect(txns[0].Address).To(Equal(uint32(24)))
		Expect(txns[0].Data).To(Equal(seq(0, 8)))
		Expect(txns[1].Address).To(Equal(uint32(32)))
		Expect(txns[1].Data).To(Equal(seq(8, 16)))

		Expect(device.Snapshot()[24:40]).To(Equal(seq(0, 16)))
	})

	It("should erase a page", func() {
		Expect(driver.Write(9, 0, seq(1, 9), 8)).To(Succeed())
		Expect(driver.ErasePage(9)).To(Succeed())

		buf := make([]byte, 8)
		Expect(driver.Read(9, 0, buf, 8)).To(Succeed())
		Expect(buf).To(Equal(bytes.Repeat([]byte{0xff}, 8)))
	})

	It("should only erase the given page", func() {
		Expect(driver.Write(4, 0, seq(1, 25), 24)).To(Succeed())
		Expect(driver.ErasePage(5)).To(Succeed())

		mem := device.Snapshot()
		Expect(mem[32:40]).To(Equal(seq(1, 9)))
		Expect(mem[40:48]).To(Equal(bytes.Repeat([]byte{0xff}, 8)))
		Expect(mem[48:56]).To(Equal(seq(17, 25)))
	})

	DescribeTable("number round trip",
		func(v float32) {
			Expect(driver.WriteNumber(12, 5, v)).To(Succeed())

			got, err := driver.ReadNumber(12, 5)

			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(v))
		},
		Entry("zero", float32(0)),
		Entry("negative", float32(-273.15)),
		Entry("fraction", float32(0.125)),
		Entry("integer", float32(1024)),
	)

	It("should read numbers written with a native byte order", func() {
		native, err := MakeBuilder().
			WithTransport(device).
			WithDelayer(clock).
			WithByteOrder(binary.NativeEndian).
			Build("Native")
		Expect(err).NotTo(HaveOccurred())

		Expect(native.WriteNumber(0, 0, 6.5)).To(Succeed())

		got, err := native.ReadNumber(0, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(float32(6.5)))
	})

	It("should fail when the device is still in its write cycle", func() {
		impatient, err := MakeBuilder().
			WithTransport(device).
			WithDelayer(clock).
			WithWriteCycle(0).
			Build("Impatient")
		Expect(err).NotTo(HaveOccurred())

		err = impatient.Write(0, 0, seq(0, 16), 16)

		Expect(errors.Is(err, ErrTransportFailure)).To(BeTrue())
		Expect(errors.Is(err, simdevice.ErrNack)).To(BeTrue())

		mem := device.Snapshot()
		Expect(mem[0:8]).To(Equal(seq(0, 8)))
		Expect(mem[8:16]).To(Equal(bytes.Repeat([]byte{0xff}, 8)))
	})

	It("should abandon remaining segments after a failure", func() {
		device.FailAfter(1)

		err := driver.Write(0, 0, seq(0, 24), 24)

		Expect(errors.Is(err, simdevice.ErrInjected)).To(BeTrue())
		Expect(device.Transactions()).To(HaveLen(1))
		Expect(device.Snapshot()[16:24]).
			To(Equal(bytes.Repeat([]byte{0xff}, 8)))
	})

	It("should not interleave concurrent multi-page requests", func() {
		recorder := &parentRecorder{}
		driver.AcceptHook(recorder)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer GinkgoRecover()
				defer wg.Done()

				data := bytes.Repeat([]byte{byte(i)}, 32)
				Expect(driver.Write(i*4, 3, data, 29)).To(Succeed())
			}(i)
		}
		wg.Wait()

		Expect(recorder.parents).To(HaveLen(8 * 4))

		finished := map[uint64]bool{}
		for j, p := range recorder.parents {
			if j > 0 && recorder.parents[j-1] != p {
				finished[recorder.parents[j-1]] = true
			}
			Expect(finished[p]).To(BeFalse())
		}
	})
})
