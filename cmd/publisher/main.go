package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type locationMessage struct {
	UserID    int64   `json:"user_id"`
	DeviceID  string  `json:"device_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	Timestamp int64   `json:"timestamp"`
}

// Default seeded zone: head office perimeter, 100m radius.
const (
	zoneLat = 35.6892
	zoneLon = 51.3890
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <interval_seconds>\n", os.Args[0])
		os.Exit(1)
	}

	intervalSec, err := strconv.Atoi(os.Args[1])
	if err != nil || intervalSec <= 0 {
		fmt.Fprintf(os.Stderr, "error: interval must be a positive integer\n")
		os.Exit(1)
	}

	broker := "tcp://localhost:1883"
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		broker = v
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("geotrackd-mock-publisher")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("mqtt connect: %v", token.Error())
	}
	defer client.Disconnect(250)

	users := []int64{1, 2}
	devices := map[int64]string{
		1: "device-mock-0001",
		2: "device-mock-0002",
	}

	log.Printf("connected to %s, publishing every %ds...", broker, intervalSec)

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		uid := users[rand.Intn(len(users))]

		var lat, lon float64
		// 50% chance inside the zone (~50m drift), otherwise ~1km east
		// so the detector sees both enters and exits.
		if rand.Float64() < 0.5 {
			lat = zoneLat + (rand.Float64()-0.5)*0.0005
			lon = zoneLon + (rand.Float64()-0.5)*0.0005
		} else {
			lat = zoneLat + (rand.Float64()-0.5)*0.001
			lon = zoneLon + 0.011 + rand.Float64()*0.002
		}

		msg := locationMessage{
			UserID:    uid,
			DeviceID:  devices[uid],
			Latitude:  lat,
			Longitude: lon,
			Accuracy:  5 + rand.Float64()*20,
			Timestamp: time.Now().Unix(),
		}

		payload, _ := json.Marshal(msg)
		topic := fmt.Sprintf("/track/user/%d/location", uid)

		token := client.Publish(topic, 1, false, payload)
		token.Wait()

		log.Printf("published to %s: %s", topic, payload)
	}
}
