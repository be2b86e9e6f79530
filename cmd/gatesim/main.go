// gatesim simulates a gate terminal: it opens parking sessions against a
// master node, closes them after a stay, and pushes live-state snapshots.
// Useful for exercising a running master without real hardware.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"
)

var categories = []string{"carro", "moto", "bicicleta"}

type movementPayload struct {
	ID              string     `json:"id"`
	Plate           string     `json:"placa"`
	VehicleCategory string     `json:"tipo_vehiculo"`
	EntryAt         time.Time  `json:"entrada"`
	ExitAt          *time.Time `json:"salida,omitempty"`
	AmountPaid      *float64   `json:"total_pagado,omitempty"`
	PaymentMethod   *string    `json:"metodo_pago,omitempty"`
	EmployeeName    string     `json:"usuario_nombre"`
	DurationMinutes *int       `json:"duracion_minutos,omitempty"`
	TerminalID      string     `json:"porteria_id"`
}

type liveStatePayload struct {
	TodayRevenue   float64                   `json:"ingresos_hoy"`
	TotalOccupancy int                       `json:"ocupacion_total"`
	Detail         map[string]map[string]int `json:"detalle_ocupacion"`
}

type session struct {
	id       string
	plate    string
	category string
	entryAt  time.Time
}

func main() {
	var (
		master   = flag.String("master", "http://localhost:3001", "master node base URL")
		terminal = flag.String("terminal", "porteria-1", "terminal identifier")
		employee = flag.String("employee", "Simulador", "attending employee name")
		vehicles = flag.Int("vehicles", 10, "number of sessions to run")
		stay     = flag.Duration("stay", 2*time.Second, "simulated parking duration")
		interval = flag.Duration("interval", 500*time.Millisecond, "gap between arrivals")
	)
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}
	occupancy := map[string]int{}
	var revenue float64

	var open []session
	for i := 0; i < *vehicles; i++ {
		s := session{
			id:       uuid.NewString(),
			plate:    fmt.Sprintf("SIM%03d", rand.Intn(1000)),
			category: categories[rand.Intn(len(categories))],
			entryAt:  time.Now().UTC(),
		}
		if err := post(client, *master+"/sync/movement", movementPayload{
			ID:              s.id,
			Plate:           s.plate,
			VehicleCategory: s.category,
			EntryAt:         s.entryAt,
			EmployeeName:    *employee,
			TerminalID:      *terminal,
		}); err != nil {
			log.Printf("entry %s failed: %v", s.plate, err)
			continue
		}
		open = append(open, s)
		occupancy[s.category]++
		log.Printf("entry %s (%s)", s.plate, s.category)

		pushLiveState(client, *master, revenue, occupancy)
		time.Sleep(*interval)
	}

	time.Sleep(*stay)

	method := "efectivo"
	for _, s := range open {
		exitAt := time.Now().UTC()
		minutes := int(exitAt.Sub(s.entryAt).Minutes()) + 1
		amount := float64(minutes) * 50
		if err := post(client, *master+"/sync/movement", movementPayload{
			ID:              s.id,
			Plate:           s.plate,
			VehicleCategory: s.category,
			EntryAt:         s.entryAt,
			ExitAt:          &exitAt,
			AmountPaid:      &amount,
			PaymentMethod:   &method,
			EmployeeName:    *employee,
			DurationMinutes: &minutes,
			TerminalID:      *terminal,
		}); err != nil {
			log.Printf("exit %s failed: %v", s.plate, err)
			continue
		}
		revenue += amount
		occupancy[s.category]--
		log.Printf("exit %s ($%.0f)", s.plate, amount)

		pushLiveState(client, *master, revenue, occupancy)
	}

	log.Printf("done: %d sessions, $%.0f reported", len(open), revenue)
}

func pushLiveState(client *http.Client, master string, revenue float64, occupancy map[string]int) {
	detail := make(map[string]map[string]int, len(occupancy))
	total := 0
	for _, cat := range categories {
		detail[cat] = map[string]int{"actual": occupancy[cat], "max": 50}
		total += occupancy[cat]
	}
	err := post(client, master+"/sync/live-state", liveStatePayload{
		TodayRevenue:   revenue,
		TotalOccupancy: total,
		Detail:         detail,
	})
	if err != nil {
		log.Printf("live-state push failed: %v", err)
	}
}

func post(client *http.Client, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}
