package tracing

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/eeprom/datarecording"
	"github.com/sarchlab/eeprom/eeprom"
	"github.com/sarchlab/eeprom/simdevice"
)

var _ = Describe("DBTracer", func() {
	var (
		mockCtrl     *gomock.Controller
		timeTeller   *MockTimeTeller
		dataRecorder *MockDataRecorder
		driver       *eeprom.Driver
		tracer       *DBTracer
		origin       time.Time
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		timeTeller = NewMockTimeTeller(mockCtrl)
		dataRecorder = NewMockDataRecorder(mockCtrl)
		driver, _ = buildDriver(simdevice.NewManualClock(time.Unix(0, 0)))
		origin = time.Unix(100, 0)

		timeTeller.EXPECT().Now().Return(origin)
		dataRecorder.EXPECT().CreateTable(RequestTable, RequestEntry{})
		dataRecorder.EXPECT().CreateTable(TransactionTable, TransactionEntry{})

		tracer = NewDBTracer(dataRecorder, timeTeller)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should record a transaction", func() {
		txn := eeprom.Transaction{
			ID:       2,
			ParentID: 1,
			Kind:     eeprom.KindWrite,
			Page:     3,
			Offset:   4,
			Address:  0x1c,
			Length:   4,
		}

		timeTeller.EXPECT().Now().Return(origin.Add(time.Second))
		tracer.Func(eeprom.HookCtx{
			Domain: driver,
			Pos:    eeprom.HookPosTransactionStart,
			Item:   txn,
		})

		timeTeller.EXPECT().Now().Return(origin.Add(2 * time.Second))
		dataRecorder.EXPECT().InsertData(TransactionTable, TransactionEntry{
			ID:        "2",
			ParentID:  "1",
			Location:  "EEPROM",
			Kind:      "write",
			Page:      3,
			Offset:    4,
			Address:   0x1c,
			Length:    4,
			StartTime: 1,
			EndTime:   2,
			Error:     "nack",
		})
		tracer.Func(eeprom.HookCtx{
			Domain: driver,
			Pos:    eeprom.HookPosTransactionEnd,
			Item:   txn,
			Detail: errors.New("nack"),
		})
	})

	It("should record a request", func() {
		req := eeprom.Request{
			ID:     1,
			Kind:   eeprom.KindRead,
			Page:   7,
			Offset: 2,
			Size:   3,
		}

		timeTeller.EXPECT().Now().Return(origin)
		tracer.Func(eeprom.HookCtx{
			Domain: driver,
			Pos:    eeprom.HookPosRequestStart,
			Item:   req,
		})

		timeTeller.EXPECT().Now().Return(origin.Add(500 * time.Millisecond))
		dataRecorder.EXPECT().InsertData(RequestTable, RequestEntry{
			ID:        "1",
			Location:  "EEPROM",
			Kind:      "read",
			Page:      7,
			Offset:    2,
			Size:      3,
			StartTime: 0,
			EndTime:   0.5,
		})
		tracer.Func(eeprom.HookCtx{
			Domain: driver,
			Pos:    eeprom.HookPosRequestEnd,
			Item:   req,
		})
	})

	It("should ignore the end of an unknown request", func() {
		tracer.Func(eeprom.HookCtx{
			Domain: driver,
			Pos:    eeprom.HookPosRequestEnd,
			Item:   eeprom.Request{ID: 9},
		})
	})
})

var _ = Describe("DBTracer with SQLite", func() {
	It("should store the transactions of a driver", func() {
		clock := simdevice.NewManualClock(time.Unix(0, 0))
		driver, _ := buildDriver(clock)
		path := filepath.Join(GinkgoT().TempDir(), "trace")

		recorder := datarecording.New(path)
		driver.AcceptHook(NewDBTracer(recorder, clock))

		data := []byte("0123456789abcdef")
		Expect(driver.Write(3, 0, data, len(data))).To(Succeed())
		Expect(recorder.Close()).To(Succeed())

		reader, err := datarecording.NewReader(path + ".sqlite3")
		Expect(err).NotTo(HaveOccurred())
		defer reader.Close()

		reader.MapTable(TransactionTable, TransactionEntry{})
		results, total, err := reader.Query(context.Background(),
			TransactionTable, datarecording.QueryParams{OrderBy: "Address"})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(2))
		Expect(results[0].(*TransactionEntry).Address).To(Equal(uint64(0x18)))
		Expect(results[1].(*TransactionEntry).Address).To(Equal(uint64(0x20)))
		Expect(results[1].(*TransactionEntry).StartTime).
			To(BeNumerically("~", 0.005, 1e-9))
	})
})
