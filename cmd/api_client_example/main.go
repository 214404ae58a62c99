// Command api_client_example queries a running `weather serve` instance.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the weather API")
	city := flag.String("city", "London", "City to look up")
	flag.Parse()

	fmt.Println("Weather API Client Example")
	fmt.Println("=========================")

	client := &http.Client{Timeout: 15 * time.Second}

	fmt.Println("\nChecking service health...")
	health, err := getJSON(client, *baseURL+"/api/health")
	if err != nil {
		fmt.Printf("Error checking health: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Service is %v, provider %v\n", health["status"], health["provider"])

	fmt.Printf("\nFetching weather for %s...\n", *city)
	weatherURL := fmt.Sprintf("%s/api/weather/city/%s", *baseURL, url.PathEscape(*city))
	weather, err := getJSON(client, weatherURL)
	if err != nil {
		fmt.Printf("Error fetching weather: %v\n", err)
		os.Exit(1)
	}

	prettyJSON, _ := json.MarshalIndent(weather, "", "  ")
	fmt.Printf("\nWeather for %s:\n%s\n", *city, string(prettyJSON))
}

// getJSON decodes a JSON object; error bodies are reported with their kind
func getJSON(client *http.Client, target string) (map[string]interface{}, error) {
	resp, err := client.Get(target)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("invalid response (%s): %w", resp.Status, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %v (%v)", resp.Status, data["error"], data["kind"])
	}
	return data, nil
}
