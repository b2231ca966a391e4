package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/danielpatrickdp/brainwave-viewer/internal/config"
	"github.com/danielpatrickdp/brainwave-viewer/internal/hud"
	"github.com/danielpatrickdp/brainwave-viewer/internal/playback"
	"github.com/danielpatrickdp/brainwave-viewer/internal/present"
	"github.com/danielpatrickdp/brainwave-viewer/internal/replay"
	"github.com/danielpatrickdp/brainwave-viewer/internal/sim"
	"github.com/danielpatrickdp/brainwave-viewer/internal/transport"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	runPath := flag.String("run", "", "path to a saved simulate response (file mode)")
	apiURL := flag.String("api", "", "backend base URL (live mode)")
	grpcAddr := flag.String("grpc", "", "backend gRPC address (live mode)")
	policy := flag.String("policy", "ppo", "policy for live mode: ppo | heuristic")
	steps := flag.Int("steps", 50, "max timesteps for live mode")
	seed := flag.Int64("seed", -1, "seed for live mode; negative means random")
	terminal := flag.Bool("hud", false, "play back in the terminal instead of printing a table")
	cadence := flag.String("cadence", "dashboard", "hud cadence: dashboard | cinematic | duration")
	flag.Parse()

	modes := 0
	for _, set := range []bool{*fixturePath != "", *runPath != "", *apiURL != "" || *grpcAddr != ""} {
		if set {
			modes++
		}
	}
	if modes != 1 {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json")
		fmt.Fprintln(os.Stderr, "       replay --run path/to/response.json [--hud]")
		fmt.Fprintln(os.Stderr, "       replay --api http://localhost:8000 [--policy ppo] [--steps 50] [--seed 42] [--hud]")
		os.Exit(2)
	}

	if *fixturePath != "" {
		os.Exit(runFixtureMode(*fixturePath))
	}

	var resp *sim.Response
	var err error
	if *runPath != "" {
		resp, err = loadRun(*runPath)
	} else {
		req := sim.Request{Scenario: sim.Scenario{MaxTimesteps: *steps}, PolicyType: sim.PolicyType(*policy)}
		if *seed >= 0 {
			req.Seed = seed
		}
		resp, err = fetch(*apiURL, *grpcAddr, req)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	if *terminal {
		d, err := config.ParseCadence(*cadence)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cadence: %v\n", err)
			os.Exit(2)
		}
		runHUD(resp, d)
		return
	}
	printFrames(replay.Replay(resp.Trajectory, nil))
}

// #endregion main

// #region sources

func loadRun(path string) (*sim.Response, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run: %w", err)
	}
	resp, err := replay.DecodeRun(data)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", path, err)
	}
	return resp, nil
}

func fetch(apiURL, grpcAddr string, req sim.Request) (*sim.Response, error) {
	if !req.PolicyType.Valid() {
		return nil, fmt.Errorf("unknown policy %q", req.PolicyType)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var simulator transport.Simulator
	if grpcAddr != "" {
		client, err := transport.NewGRPCClient(grpcAddr)
		if err != nil {
			return nil, fmt.Errorf("connect %s: %w", grpcAddr, err)
		}
		defer client.Close()
		simulator = client
	} else {
		simulator = transport.NewHTTPClient(apiURL, http.DefaultClient)
	}

	resp, err := simulator.RunSimulation(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	return replay.DecodeRun(resp.Raw())
}

// #endregion sources

// #region fixture-mode

func runFixtureMode(path string) int {
	f, resp, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	frames := replay.Replay(resp.Trajectory, f.Commands)
	printFrames(frames)

	got := replay.Summarize(frames)
	want := f.Expected
	fmt.Printf("\n%-12s| %-10s| %-10s| %s\n", "Check", "Expected", "Replayed", "Match")
	fmt.Printf("%-12s+%-11s+%-11s+%s\n", "------------", "-----------", "-----------", "------")
	diverge := 0
	for _, row := range []struct {
		name      string
		want, got any
	}{
		{"frames", want.Frames, got.Frames},
		{"final_index", want.FinalIndex, got.FinalIndex},
		{"completed", want.Completed, got.Completed},
	} {
		match := "OK"
		if row.want != row.got {
			match = "DIFF"
			diverge++
		}
		fmt.Printf("%-12s| %-10v| %-10v| %s\n", row.name, row.want, row.got, match)
	}

	if diverge > 0 {
		return 1
	}
	return 0
}

// #endregion fixture-mode

// #region output

func printFrames(frames []replay.Frame) {
	if len(frames) == 0 {
		fmt.Println("No simulation data.")
		return
	}
	fmt.Printf("%-6s| %-9s| %-24s| %-9s| %s\n", "Frame", "Timestep", "Action", "Reward", "Total")
	for i, f := range frames {
		fmt.Printf("%-6d| %-9d| %-24s| %-+9.2f| %.2f\n", i, f.Timestep, present.ActionTitle(f.Action), f.Reward, f.Cumulative)
	}
	s := replay.Summarize(frames)
	fmt.Printf("\nSummary: %d frames, final index %d, completed=%t, total reward %.2f\n",
		s.Frames, s.FinalIndex, s.Completed, s.TotalReward)
}

// runHUD plays the run on the wall clock and redraws the terminal on every
// transition until playback stops.
func runHUD(resp *sim.Response, cadence time.Duration) {
	policy := resp.Metrics.PolicyType
	rewards := present.CumulativeRewards(resp.Trajectory)
	// one snapshot per tick plus the Play itself
	frames := make(chan playback.Snapshot, resp.Len()+2)

	player := playback.NewPlayer(resp.Trajectory, playback.Options{
		Cadence: cadence,
		OnChange: func(s playback.Snapshot) {
			select {
			case frames <- s:
			default:
			}
		},
	})
	defer player.Close()

	draw := func(s playback.Snapshot) {
		total := 0.0
		if s.Step != nil {
			total = rewards[s.Index]
		}
		fmt.Print("\033[H\033[2J")
		fmt.Println(hud.Render(s, policy, total))
	}

	draw(player.Snapshot())
	if resp.Len() == 0 {
		return
	}
	player.Play()
	for s := range frames {
		draw(s)
		if !s.Playing {
			return
		}
	}
}

// #endregion output
