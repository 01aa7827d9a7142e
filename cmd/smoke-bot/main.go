package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"
)

// smoke-bot drives a running economy-server like a busy chat user: claim the
// daily reward, play the guessing game, chatter for activity coins, and buy
// the first item it can afford.

type guessResult struct {
	Outcome   string `json:"outcome"`
	FirstPlay bool   `json:"first_play"`
	Secret    int    `json:"secret"`
	Balance   int64  `json:"balance"`
}

func main() {
	baseURL := getenv("SERVER_URL", "http://localhost:8080")
	userID := getenv("USER_ID", "smoke-bot")
	rounds := 10

	client := &http.Client{Timeout: 5 * time.Second}
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	if err := post(client, baseURL+"/api/users/"+userID+"/daily", nil, nil); err != nil {
		log.Printf("daily: %v", err)
	} else {
		log.Printf("daily reward claimed")
	}

	secret := -1
	for i := 0; i < rounds; i++ {
		guess := rnd.Intn(10) + 1
		if secret > 0 {
			guess = secret
		}
		body := map[string]any{"guess": guess}
		var res guessResult
		if err := post(client, baseURL+"/api/users/"+userID+"/guess", body, &res); err != nil {
			log.Printf("guess: %v", err)
			continue
		}
		log.Printf("guess %d: %s (balance %d)", guess, res.Outcome, res.Balance)
		if res.Outcome == "incorrect" {
			secret = res.Secret
		}

		if err := post(client, baseURL+"/api/users/"+userID+"/activity", nil, nil); err != nil {
			log.Printf("activity: %v", err)
		}
	}

	var balResp struct {
		Balance int64 `json:"balance"`
	}
	if err := get(client, baseURL+"/api/public/users/"+userID+"/balance", &balResp); err != nil {
		log.Fatal(err)
	}
	log.Printf("final balance %d", balResp.Balance)

	var catResp struct {
		Items []struct {
			Name  string `json:"name"`
			Price int64  `json:"price"`
		} `json:"items"`
	}
	if err := get(client, baseURL+"/api/public/catalog", &catResp); err != nil {
		log.Fatal(err)
	}
	for _, item := range catResp.Items {
		if item.Price > balResp.Balance {
			continue
		}
		var buyResp struct {
			Item    string `json:"item"`
			Balance int64  `json:"balance"`
		}
		err := post(client, baseURL+"/api/users/"+userID+"/purchase", map[string]any{"item": item.Name}, &buyResp)
		if err != nil {
			log.Printf("purchase %q: %v", item.Name, err)
			continue
		}
		log.Printf("bought %q, balance %d", buyResp.Item, buyResp.Balance)
		break
	}
}

func post(client *http.Client, url string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader([]byte("{}"))
	}
	resp, err := client.Post(url, "application/json", reader)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

func get(client *http.Client, url string, out any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

func decode(resp *http.Response, out any) error {
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}
	if out == nil {
		_, err := io.Copy(io.Discard, resp.Body)
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
