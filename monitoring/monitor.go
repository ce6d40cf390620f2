// Package monitoring serves the state of a live EEPROM driver over HTTP.
package monitoring

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/sarchlab/eeprom/eeprom"
	"github.com/sarchlab/eeprom/idgen"
	"github.com/sarchlab/eeprom/monitoring/web"
	"github.com/sarchlab/eeprom/tracing"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// Driver is the part of an EEPROM driver that the monitor uses.
type Driver interface {
	Name() string
	Geometry() eeprom.Geometry
	Read(page, offset int, buf []byte, size int) error
	ErasePage(page int) error
}

// Monitor turns a driver into a server that can be inspected from a browser.
type Monitor struct {
	driver     Driver
	stats      *tracing.StatsTracer
	portNumber int
	ids        idgen.Generator

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		ids: idgen.New(),
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterDriver sets the driver to be monitored.
func (m *Monitor) RegisterDriver(d Driver) {
	m.driver = d
}

// RegisterStats sets the statistics tracer attached to the driver.
func (m *Monitor) RegisterStats(s *tracing.StatsTracer) {
	m.stats = s
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        m.ids.Generate().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Handler returns the routes of the monitor.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/geometry", m.geometry).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", m.listStats).Methods(http.MethodGet)
	r.HandleFunc("/api/page/{page}", m.readPage).Methods(http.MethodGet)
	r.HandleFunc("/api/erase", m.erasePages).Methods(http.MethodPost)
	r.HandleFunc("/api/driver", m.driverDetails).Methods(http.MethodGet)
	r.HandleFunc("/api/field/{json}", m.listFieldValue).Methods(http.MethodGet)
	r.HandleFunc("/api/progress", m.listProgressBars).Methods(http.MethodGet)
	r.HandleFunc("/api/resource", m.listResources).Methods(http.MethodGet)
	r.HandleFunc("/api/profile", m.collectProfile).Methods(http.MethodGet)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() (string, error) {
	if m.driver == nil {
		return "", errors.New("no driver registered")
	}

	listener, err := net.Listen("tcp", ":"+strconv.Itoa(m.portNumber))
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring %s with %s\n", m.driver.Name(), url)

	go func() {
		err := http.Serve(listener, m.Handler())
		dieOnErr(err)
	}()

	return url, nil
}

func (m *Monitor) geometry(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.driver.Geometry())
}

func (m *Monitor) listStats(w http.ResponseWriter, _ *http.Request) {
	if m.stats == nil {
		http.Error(w, "statistics are not collected", http.StatusNotFound)
		return
	}

	writeJSON(w, m.stats.Snapshot())
}

type pageRsp struct {
	Page    int    `json:"page"`
	Address uint32 `json:"address"`
	Data    string `json:"data"`
}

func (m *Monitor) readPage(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(mux.Vars(r)["page"])
	if err != nil {
		http.Error(w, "invalid page number", http.StatusBadRequest)
		return
	}

	g := m.driver.Geometry()
	buf := make([]byte, g.PageSize)

	err = m.driver.Read(page, 0, buf, g.PageSize)
	if err != nil {
		writeDriverError(w, err)
		return
	}

	writeJSON(w, pageRsp{
		Page:    page,
		Address: g.MemoryAddress(page, 0),
		Data:    hex.EncodeToString(buf),
	})
}

type eraseRsp struct {
	ProgressID string `json:"progress_id"`
}

// erasePages erases count pages starting from page in the background. The
// progress can be followed with /api/progress.
func (m *Monitor) erasePages(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		http.Error(w, "invalid page number", http.StatusBadRequest)
		return
	}

	count := 1
	if s := r.URL.Query().Get("count"); s != "" {
		count, err = strconv.Atoi(s)
		if err != nil || count < 1 {
			http.Error(w, "invalid page count", http.StatusBadRequest)
			return
		}
	}

	g := m.driver.Geometry()
	if page < 0 || page+count > g.PageCount {
		http.Error(w, "pages out of range", http.StatusBadRequest)
		return
	}

	bar := m.CreateProgressBar(
		fmt.Sprintf("Erasing pages %d-%d", page, page+count-1),
		uint64(count))

	go func() {
		defer m.CompleteProgressBar(bar)

		for p := page; p < page+count; p++ {
			bar.IncrementInProgress(1)

			err := m.driver.ErasePage(p)
			if err != nil {
				log.Printf("erasing page %d: %v", p, err)
				return
			}

			bar.MoveInProgressToFinished(1)
		}
	}()

	writeJSONStatus(w, http.StatusAccepted, eraseRsp{ProgressID: bar.ID})
}

func (m *Monitor) driverDetails(w http.ResponseWriter, _ *http.Request) {
	serializer := goseth.NewSerializer()
	serializer.SetRoot(m.driver)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type fieldReq struct {
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	req := fieldReq{}

	err := json.Unmarshal([]byte(mux.Vars(r)["json"]), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(m.driver)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	err = serializer.Serialize(w)
	dieOnErr(err)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bars := make([]progressRsp, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.snapshot())
	}
	m.progressBarsLock.Unlock()

	writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeDriverError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, eeprom.ErrOutOfRange):
		status = http.StatusNotFound
	case errors.Is(err, eeprom.ErrTransportFailure):
		status = http.StatusBadGateway
	}

	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
