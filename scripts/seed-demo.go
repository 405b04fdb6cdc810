package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"time"
)

const apiBase = "http://localhost:8080"

type User struct {
	CommonName string `json:"commonName"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	Token      string `json:"token"`
}

func registerUser(commonName, username, password string) (*User, error) {
	body, _ := json.Marshal(map[string]string{
		"commonName": commonName,
		"username":   username,
		"email":      username + "@example.com",
		"password":   password,
	})

	resp, err := http.Post(apiBase+"/users", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("registration failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	return &User{CommonName: commonName, Username: username, Password: password}, nil
}

func login(user *User) error {
	body, _ := json.Marshal(map[string]string{
		"username": user.Username,
		"password": user.Password,
	})

	resp, err := http.Post(apiBase+"/auth/password", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("login failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result struct {
		Status string `json:"status"`
		Token  string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	user.Token = result.Token
	return nil
}

func authedRequest(method, path, token string, payload interface{}) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		jsonBody, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBody)
	}

	req, _ := http.NewRequest(method, apiBase+path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	return http.DefaultClient.Do(req)
}

func postTweet(user *User, content string) error {
	resp, err := authedRequest("POST", "/feeds", user.Token, map[string]string{"content": content})
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("tweet failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

func follow(user *User, target string) error {
	resp, err := authedRequest("PUT", "/feeds/user/"+target, user.Token, nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("follow failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

func printTimeline(user *User) error {
	resp, err := authedRequest("GET", "/feeds", user.Token, nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Tweets []struct {
			Content       string    `json:"content"`
			TweetDatetime time.Time `json:"tweetDatetime"`
		} `json:"tweets"`
		Count int64 `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	fmt.Printf("timeline for %s (%d tweets):\n", user.Username, result.Count)
	for _, tweet := range result.Tweets {
		fmt.Printf("  [%s] %s\n", tweet.TweetDatetime.Format(time.Kitchen), tweet.Content)
	}
	return nil
}

func main() {
	suffix := fmt.Sprintf("%04d", rand.Intn(10000))

	names := []struct{ common, username string }{
		{"Demo Alice", "alice_" + suffix},
		{"Demo Bob", "bob_" + suffix},
		{"Demo Carol", "carol_" + suffix},
	}

	users := make([]*User, 0, len(names))
	for _, n := range names {
		user, err := registerUser(n.common, n.username, "demopassword")
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		if err := login(user); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		users = append(users, user)
		fmt.Printf("registered %s\n", user.Username)
	}

	// alice follows bob and carol, bob follows alice.
	for _, target := range []*User{users[1], users[2]} {
		if err := follow(users[0], target.Username); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
	if err := follow(users[1], users[0].Username); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	for _, user := range users {
		for j := 0; j < 3; j++ {
			content := fmt.Sprintf("tweet %d from %s", j+1, user.Username)
			if err := postTweet(user, content); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
		}
		fmt.Printf("posted 3 tweets as %s\n", user.Username)
	}

	if err := printTimeline(users[0]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
