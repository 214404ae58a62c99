// Command rate_limit_test pushes a burst of asynchronous fetches through a
// rate-limited provider and reports how fast completions arrive.
package main

import (
	"context"
	"flag"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"weather-lookup/datasource"
	"weather-lookup/models"
)

// slowProvider simulates provider latency and counts calls
type slowProvider struct {
	calls   atomic.Int64
	latency time.Duration
}

func (p *slowProvider) Name() string { return "SlowProvider" }

func (p *slowProvider) WeatherByCityName(ctx context.Context, name string) (models.Weather, error) {
	n := p.calls.Add(1)
	fmt.Printf("%s - request #%d for %s\n", time.Now().Format("15:04:05.000"), n, name)

	select {
	case <-time.After(p.latency):
	case <-ctx.Done():
		return models.Weather{}, ctx.Err()
	}
	return models.NewWeather(name, 21.6, models.Metric, models.OpenWeatherMapConditions, 800), nil
}

func (p *slowProvider) WeatherByCoordinates(ctx context.Context, coords models.Coordinates) (models.Weather, error) {
	return p.WeatherByCityName(ctx, coords.String())
}

func main() {
	rps := flag.Float64("rps", 1.0, "Rate limit in requests per second")
	burst := flag.Int("burst", 3, "Maximum burst size")
	total := flag.Int("requests", 10, "Total number of fetches to start")
	timeout := flag.Duration("timeout", 30*time.Second, "Give up on fetches still waiting after this long")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	provider := &slowProvider{latency: 200 * time.Millisecond}
	fetcher := datasource.NewFetcher(datasource.NewRateLimitedProvider(provider, *rps, *burst))

	fmt.Printf("Testing rate limiter with:\n")
	fmt.Printf("- Rate limit: %.2f requests/second\n", *rps)
	fmt.Printf("- Burst size: %d\n", *burst)
	fmt.Printf("- Total fetches: %d\n", *total)
	fmt.Println("Starting test...")

	start := time.Now()

	var (
		wg       sync.WaitGroup
		failures atomic.Int64
	)
	for i := 0; i < *total; i++ {
		wg.Add(1)
		city := fmt.Sprintf("TestCity-%d", i)
		fetcher.FetchByCityName(ctx, city, func(r models.Result) {
			defer wg.Done()
			if r.Err != nil {
				failures.Add(1)
				fmt.Printf("%s failed after %v: %v (%s)\n", city, time.Since(start).Round(time.Millisecond), r.Err, datasource.KindOf(r.Err))
				return
			}
			fmt.Printf("%s completed after %v: %s\n", city, time.Since(start).Round(time.Millisecond), r.Weather.Temperature())
		})
	}
	wg.Wait()

	elapsed := time.Since(start)
	actual := float64(provider.calls.Load()) / elapsed.Seconds()

	fmt.Println("\nTest completed!")
	fmt.Printf("Total time: %.2f seconds\n", elapsed.Seconds())
	fmt.Printf("Provider calls: %d, failed fetches: %d\n", provider.calls.Load(), failures.Load())
	fmt.Printf("Actual requests per second: %.2f\n", actual)

	expectedMin := float64(*total-*burst) / *rps
	if expectedMin < 0 {
		expectedMin = 0
	}
	fmt.Printf("Expected minimum time (theoretical): %.2f seconds\n", expectedMin)

	if actual > *rps*1.5 && *total > *burst {
		fmt.Println("\nWARNING: actual rate is well above the configured limit")
	} else {
		fmt.Println("\nRate limiting appears to be working correctly.")
	}
}
