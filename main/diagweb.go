package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/openmotion/trackerd/hw"
	"github.com/openmotion/trackerd/protocol"
)

var (
	samplesFused = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trackerd_samples_fused_total",
		Help: "Orientation samples produced by the IMU driver.",
	})
	packetsOut = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trackerd_packets_out_total",
		Help: "Packets drained from the store and written to transports.",
	})
	storeFull = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trackerd_store_full_total",
		Help: "Enqueue attempts rejected by a full packet store.",
	})
	busErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trackerd_bus_errors_total",
		Help: "I2C read failures during fusion cycles.",
	})
)

type diagStatus struct {
	Version  string `json:"version"`
	Board    string `json:"board"`
	Imu      string `json:"imu"`
	Started  string `json:"started"`
	Uptime   string `json:"uptime"`
	StoreLen int    `json:"store_len"`
	StoreCap int    `json:"store_cap"`
	Dropped  uint64 `json:"dropped"`
}

// diagMux builds the handler set: prometheus metrics plus a status snapshot.
func diagMux(imu protocol.ImuType, store *protocol.Store, booted time.Time) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/status", func(w http.ResponseWriter, req *http.Request) {
		resp, _ := json.Marshal(&diagStatus{
			Version:  trackerdVersion,
			Board:    hw.BoardName(),
			Imu:      imu.String(),
			Started:  trackerClock.HumanizeTime(booted),
			Uptime:   trackerClock.Since(booted).String(),
			StoreLen: store.Len(),
			StoreCap: store.Cap(),
			Dropped:  store.Dropped(),
		})
		w.Header().Set("Content-Type", "application/json")
		w.Write(resp)
	})
	return mux
}

// diagInterface serves metrics and a status snapshot for bench debugging.
// It is reachable over the device's USB network gadget; the tracked stream
// itself never goes through here.
func diagInterface(addr string, imu protocol.ImuType, store *protocol.Store, booted time.Time) {
	prometheus.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Name: "trackerd_store_dropped_total",
		Help: "Packets discarded by the store's drop overflow policy.",
	}, func() float64 { return float64(store.Dropped()) }))

	if err := http.ListenAndServe(addr, diagMux(imu, store, booted)); err != nil {
		log.Errorf("diag interface: %s", err)
	}
}
