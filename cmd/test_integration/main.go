package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	baseURL = "http://localhost:8080"
)

func main() {
	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting Integration Test...")

	// 1. Compare two renamings of the same figure
	fmt.Println("1. Comparing statements...")
	pair := map[string]string{
		"a": "a b c = triangle a b c; d = midpoint d b c ? perp a d b c",
		"b": "x y z = triangle x y z; m = midpoint m z x ? perp y m x z",
	}

	var verdict struct {
		Equivalent bool `json:"equivalent"`
	}
	if !sendRequest("POST", "/equivalent", pair, &verdict) || !verdict.Equivalent {
		fmt.Println("FAILED: Compare statements")
		os.Exit(1)
	}
	fmt.Println("PASSED: Compare statements")

	// 2. Deduplicate a small corpus
	fmt.Println("2. Deduplicating corpus...")
	corpus := map[string]interface{}{
		"entries": []map[string]string{
			{"id": "1", "statement": pair["a"]},
			{"id": "2", "statement": pair["b"]},
			{"id": "3", "statement": "a b c = triangle a b c; d = midpoint d b c ? perp b d a c"},
		},
	}

	var report struct {
		Classes [][]string `json:"classes"`
	}
	if !sendRequest("POST", "/batch", corpus, &report) || len(report.Classes) != 1 {
		fmt.Println("FAILED: Deduplicate corpus")
		os.Exit(1)
	}
	fmt.Println("PASSED: Deduplicate corpus")

	// 3. Registry summary
	fmt.Println("3. Listing constructions...")
	if !sendRequest("GET", "/constructions", nil, nil) {
		fmt.Println("FAILED: List constructions")
		os.Exit(1)
	}
	fmt.Println("PASSED: List constructions")
}

func sendRequest(method, endpoint string, payload, out interface{}) bool {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return false
	}
	fmt.Printf("Response: %s\n", string(respBody))

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			fmt.Printf("Error decoding response: %v\n", err)
			return false
		}
	}
	return true
}
