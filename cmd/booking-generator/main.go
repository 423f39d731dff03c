package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
)

// The generator registers a batch of fake customers against the user service
// and then fires booking requests at the reservation service at a fixed rate.
// Useful for load testing and for populating a fresh local environment.

type userRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type profileRequest struct {
	LicenseNumber string    `json:"license_number"`
	LicenseExpiry time.Time `json:"license_expiry"`
	Phone         string    `json:"phone"`
}

type bookingRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type userResponse struct {
	ID uuid.UUID `json:"id"`
}

func main() {
	reservationURL := flag.String("reservations", "http://localhost:8080", "Reservation service base URL")
	userURL := flag.String("users", "http://localhost:8081", "User service base URL")
	carModels := flag.String("car-models", "", "Comma-separated car model ids to book")
	customers := flag.Int("customers", 10, "Number of fake customers to register")
	rps := flag.Int("rps", 5, "Booking requests per second")
	flag.Parse()

	modelIDs := parseModelIDs(*carModels)
	if len(modelIDs) == 0 {
		log.Fatal("at least one car model id is required (--car-models)")
	}

	log.Printf("Starting generator: reservations=%s, users=%s, customers=%d, rps=%d\n",
		*reservationURL, *userURL, *customers, *rps)

	userIDs := registerCustomers(*userURL, *customers)
	if len(userIDs) == 0 {
		log.Fatal("no customers could be registered")
	}
	log.Printf("Registered %d customers\n", len(userIDs))

	ticker := time.NewTicker(time.Second / time.Duration(*rps))
	defer ticker.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ticker.C:
			userID := userIDs[rand.Intn(len(userIDs))]
			modelID := modelIDs[rand.Intn(len(modelIDs))]
			go sendBooking(*reservationURL, userID, modelID)
		case <-ctx.Done():
			log.Println("Shutting down generator...")
			return
		}
	}
}

func parseModelIDs(raw string) []uuid.UUID {
	var out []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			log.Fatalf("bad car model id %q: %v", part, err)
		}
		out = append(out, id)
	}
	return out
}

func registerCustomers(baseURL string, n int) []uuid.UUID {
	var ids []uuid.UUID
	for i := 0; i < n; i++ {
		u := userRequest{
			Email:    faker.Email(),
			FullName: faker.Name(),
			Role:     "CUSTOMER",
		}
		var created userResponse
		if err := postJSON(baseURL+"/api/v1/users", u, &created); err != nil {
			log.Printf("ERROR: failed to register customer: %v", err)
			continue
		}

		p := profileRequest{
			LicenseNumber: fmt.Sprintf("DL-%08d", rand.Intn(100000000)),
			LicenseExpiry: time.Now().AddDate(rand.Intn(5)+1, 0, 0),
			Phone:         faker.E164PhoneNumber(),
		}
		if err := putJSON(fmt.Sprintf("%s/api/v1/users/%s/profile", baseURL, created.ID), p); err != nil {
			log.Printf("ERROR: failed to save profile: %v", err)
			continue
		}
		ids = append(ids, created.ID)
	}
	return ids
}

func sendBooking(baseURL string, userID, modelID uuid.UUID) {
	start := time.Now().AddDate(0, 0, rand.Intn(60)+1)
	end := start.AddDate(0, 0, rand.Intn(14)+1)

	req := bookingRequest{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
	}
	url := fmt.Sprintf("%s/api/v1/reservations/users/%s/cars/%s", baseURL, userID, modelID)
	if err := postJSON(url, req, nil); err != nil {
		log.Printf("WARN: booking failed: %v", err)
		return
	}
	log.Printf("INFO: booking created for user %s", userID)
}

func postJSON(url string, in any, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func putJSON(url string, in any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPut, url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return nil
}
