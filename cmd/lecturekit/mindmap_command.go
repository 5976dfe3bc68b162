package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bdougie/lecturekit/internal/capture"
	"github.com/bdougie/lecturekit/internal/mindmap"
)

func newMindMapCommand(ctx *commandContext) *cobra.Command {
	var file string
	var topic string
	var output string
	var dotPath string
	var show bool

	cmd := &cobra.Command{
		Use:   "mindmap",
		Short: "Cluster the keywords of a text into a mind map image",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.log()
			runCtx := cmd.Context()

			text, err := readInput("", file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if strings.TrimSpace(topic) == "" {
				topic, err = prompt(cmd.InOrStdin(), cmd.OutOrStdout(), "Enter main topic: ")
				if err != nil {
					return fmt.Errorf("read topic: %w", err)
				}
			}

			emb, err := ctx.embedder()
			if err != nil {
				return err
			}
			defer emb.Close()

			res, err := mindmap.Generate(runCtx, emb, text, topic, mindmap.Options{
				TopN:     cfg.MindMap.TopN,
				Clusters: cfg.MindMap.Clusters,
				Layout: mindmap.LayoutOptions{
					K:          cfg.MindMap.SpringK,
					Iterations: cfg.MindMap.Iterations,
					Seed:       uint64(cfg.MindMap.Seed),
				},
			})
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(res.Clusters))
			for _, c := range res.Clusters {
				rows = append(rows, []string{c.Name, strconv.Itoa(len(c.Keywords)), strings.Join(c.Keywords, ", ")})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Cluster", "Size", "Keywords"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft},
			))

			renderOpts := mindmap.RenderOptions{Width: cfg.MindMap.Width, Height: cfg.MindMap.Height}
			target := output
			if strings.TrimSpace(target) == "" {
				target = cfg.MindMap.OutputPath
			}
			if err := writeFile(target, func(f *os.File) error {
				return mindmap.RenderPNG(f, res.Graph, res.Layout, renderOpts)
			}); err != nil {
				return err
			}
			logger.Info("mind map written", "path", target, "nodes", len(res.Graph.Nodes))

			if strings.TrimSpace(dotPath) != "" {
				if err := writeFile(dotPath, func(f *os.File) error {
					return mindmap.WriteDOT(f, res.Graph)
				}); err != nil {
					return err
				}
			}

			if show {
				img, err := mindmap.Render(res.Graph, res.Layout, renderOpts)
				if err != nil {
					return err
				}
				return capture.ShowImage(runCtx, "Mind Map for: "+res.Graph.Topic, img)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read text from a file (default: stdin)")
	cmd.Flags().StringVar(&topic, "topic", "", "Main topic at the centre of the map (prompted when empty)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "PNG output path (overrides mindmap.output_path)")
	cmd.Flags().StringVar(&dotPath, "dot", "", "Also write the graph in Graphviz DOT format")
	cmd.Flags().BoolVar(&show, "show", false, "Display the mind map in a window")
	return cmd
}

func writeFile(path string, write func(*os.File) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
