package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/delaneyj/cellparty"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

const (
	itersKey   = "iters"
	profileKey = "profile"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Measure cellparty propagation latency",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  itersKey,
				Usage: "Timed writes per graph shape",
				Value: 100,
			},
			&cli.StringFlag{
				Name:  profileKey,
				Usage: "Write a CPU profile to the given file",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if profilePath := cmd.String(profileKey); profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			return err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	iters := int(cmd.Uint(itersKey))

	log.Printf("warming up")
	benchmarkPropagate(iters, false)

	benchmarkPropagate(iters, true)
	benchmarkStoreFanout(iters, true)
	return nil
}

var (
	ww = []int{1, 10, 100, 1_000}
	hh = []int{1, 10, 100, 1_000}
)

// w parallel chains of h computeds hang off one ref; every timed write to the
// ref propagates through all of them into an effect per chain.
func benchmarkPropagate(iters int, shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Cellparty Propagate")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			rs := cellparty.CreateReactiveSystem(nil)
			src := rs.Ref(1)
			for i := 0; i < w; i++ {
				last := func() int { return src.Value().(int) }
				for j := 0; j < h; j++ {
					prev := last
					c := rs.Computed(func(oldValue any) any {
						return prev() + 1
					})
					last = func() int { return c.Value().(int) }
				}

				rs.Effect(func() {
					last()
				})
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				src.SetValue(src.Value().(int) + 1)
				tach.AddTime(time.Since(start))
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("propagate: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	if shouldRender {
		tbl.Render()
	}
}

// one store key fanned out to w effects, then w keys written in one batch,
// timing the dispatch path.
func benchmarkStoreFanout(iters int, shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Cellparty Store Fanout")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, w := range ww {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		rs := cellparty.CreateReactiveSystem(nil)
		st := rs.Reactive(cellparty.ObjectOf(
			cellparty.Entry{Key: "n", Value: 0},
		)).(*cellparty.Store)
		for i := 0; i < w; i++ {
			rs.Effect(func() {
				st.Get("n")
			})
		}

		for i := 0; i < iters; i++ {
			start := time.Now()
			st.Set("n", i+1)
			tach.AddTime(time.Since(start))
		}

		calc := tach.Calc()
		tbl.AppendRows([]table.Row{
			{
				fmt.Sprintf("fanout: 1 -> %d", w),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
			},
		})

		tach = tachymeter.New(&tachymeter.Config{Size: iters})
		keys := make([]string, w)
		for i := 0; i < w; i++ {
			keys[i] = fmt.Sprintf("k%d", i)
			st.Set(keys[i], 0)
		}
		for i := 0; i < w; i++ {
			key := keys[i]
			rs.Effect(func() {
				st.Get(key)
			})
		}

		for i := 0; i < iters; i++ {
			start := time.Now()
			rs.Batch(func() {
				for _, key := range keys {
					st.Set(key, i+1)
				}
			})
			tach.AddTime(time.Since(start))
		}

		calc = tach.Calc()
		tbl.AppendRows([]table.Row{
			{
				fmt.Sprintf("batched writes: %d keys", w),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
			},
		})
	}

	if shouldRender {
		tbl.Render()
	}
}
