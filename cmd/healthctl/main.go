package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"health-connect-demo/backend/internal/ai"
	"health-connect-demo/backend/internal/client"
)

// healthctl is a small terminal client for the backend. It drives the same
// symptom checker state machine the web client uses, so it exercises the
// full validate, submit and parse path against a running server.

func main() {
	var (
		server   = flag.String("server", "http://localhost:8080", "backend base URL")
		token    = flag.String("token", os.Getenv("HEALTH_CONNECT_TOKEN"), "bearer token for authenticated requests")
		symptoms = flag.String("symptoms", "", "comma-separated symptom list")
		describe = flag.String("describe", "", "free-text description of how you feel")
		advise   = flag.Bool("advise", false, "ask the health advisor instead of the symptom analyzer")
		timeout  = flag.Duration("timeout", 90*time.Second, "request timeout")
	)
	flag.Parse()

	api := client.NewAPIClient(*server, *token)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *advise {
		runAdvisor(ctx, api, *symptoms)
		return
	}

	runChecker(ctx, api, *symptoms, *describe)
}

func runChecker(ctx context.Context, api *client.APIClient, symptoms, describe string) {
	checker := client.NewSymptomChecker(api)

	for _, s := range strings.Split(symptoms, ",") {
		if s = strings.TrimSpace(s); s != "" {
			checker.ToggleSymptom(s)
		}
	}
	checker.SetDescription(describe)

	if err := checker.Analyze(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "analysis failed:", err)
		os.Exit(1)
	}

	printAnalysis(checker.Result())
}

func runAdvisor(ctx context.Context, api *client.APIClient, symptoms string) {
	if strings.TrimSpace(symptoms) == "" {
		fmt.Fprintln(os.Stderr, "the advisor needs -symptoms")
		os.Exit(1)
	}

	advice, err := api.Advise(ctx, symptoms, "")
	if err != nil {
		fmt.Fprintln(os.Stderr, "advice request failed:", err)
		os.Exit(1)
	}

	fmt.Println(advice)
}

func printAnalysis(a *ai.SymptomAnalysis) {
	fmt.Printf("Severity: %s\n\n", a.SeverityLevel)

	if len(a.PossibleConditions) > 0 {
		fmt.Println("Possible conditions:")
		for _, c := range a.PossibleConditions {
			fmt.Printf("  - %s (%s): %s\n", c.Condition, c.Probability, c.Description)
		}
		fmt.Println()
	}

	if len(a.RedFlags) > 0 {
		fmt.Println("Red flags:")
		for _, r := range a.RedFlags {
			fmt.Printf("  ! %s\n", r)
		}
		fmt.Println()
	}

	if len(a.RecommendedActions) > 0 {
		fmt.Println("Recommended actions:")
		for _, r := range a.RecommendedActions {
			fmt.Printf("  - %s\n", r)
		}
		fmt.Println()
	}

	if len(a.HomeRemedies) > 0 {
		fmt.Println("Home remedies:")
		for _, r := range a.HomeRemedies {
			fmt.Printf("  - %s: %s\n", r.Remedy, r.Instructions)
		}
		fmt.Println()
	}

	if a.WhenToSeekHelp != "" {
		fmt.Println("When to seek help:", a.WhenToSeekHelp)
	}
	if a.Disclaimer != "" {
		fmt.Println()
		fmt.Println(a.Disclaimer)
	}
}
