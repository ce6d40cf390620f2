package tracing

import (
	"bytes"
	"log"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/eeprom/eeprom"
	"github.com/sarchlab/eeprom/simdevice"
)

func buildDriver(clock *simdevice.ManualClock) (*eeprom.Driver, *simdevice.Device) {
	device := simdevice.MakeBuilder().
		WithClock(clock).
		Build()

	driver, err := eeprom.MakeBuilder().
		WithTransport(device).
		WithDelayer(clock).
		Build("EEPROM")
	Expect(err).NotTo(HaveOccurred())

	return driver, device
}

var _ = Describe("LogTracer", func() {
	var (
		buf    *bytes.Buffer
		driver *eeprom.Driver
		device *simdevice.Device
	)

	BeforeEach(func() {
		buf = new(bytes.Buffer)
		driver, device = buildDriver(simdevice.NewManualClock(time.Unix(0, 0)))
		driver.AcceptHook(NewLogTracer(log.New(buf, "", 0)))
	})

	It("should print each transaction and the request", func() {
		data := []byte("0123456789abcdef")

		Expect(driver.Write(3, 0, data, len(data))).To(Succeed())

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		Expect(lines).To(HaveLen(3))
		Expect(lines[0]).To(Equal(
			"EEPROM, txn, 2, write, page 3, offset 0, 0x0018, 8, ok"))
		Expect(lines[1]).To(Equal(
			"EEPROM, txn, 3, write, page 4, offset 0, 0x0020, 8, ok"))
		Expect(lines[2]).To(Equal(
			"EEPROM, req, 1, write, page 3, offset 0, 16, ok"))
	})

	It("should print failures", func() {
		device.FailAfter(0)

		Expect(driver.ErasePage(1)).NotTo(Succeed())

		Expect(buf.String()).To(ContainSubstring("erase, page 1"))
		Expect(buf.String()).To(ContainSubstring("failed: "))
	})
})
