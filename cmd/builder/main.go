package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"kgraph/internal/util"
	"kgraph/pkg/kg"
	"kgraph/pkg/logger"
	"kgraph/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	inputDir := util.GetEnvString("OUTPUT_DIR", "data/processed")
	graphDir := util.GetEnvString("GRAPH_DIR", filepath.Join(inputDir, "graph"))

	docEntities, triples, err := kg.LoadSources(inputDir)
	if err != nil {
		logger.Fatal("Could not load graph sources", "err", err)
	}

	graph := kg.Assemble(docEntities, triples)
	logger.Info("Graph assembled", "nodes", graph.NodeCount(), "edges", graph.EdgeCount())

	if nodes := graph.Nodes(); len(nodes) > 0 {
		sample := nodes[0].ID
		out := graph.OutEdges(sample)
		logger.Debug("Sample outgoing edges", "node", sample, "count", len(out))
		for i, e := range out {
			if i >= 5 {
				break
			}
			logger.Debug("Edge", "target", e.Target, "relation", e.Relation)
		}
	}

	if err := os.MkdirAll(graphDir, 0o755); err != nil {
		logger.Fatal("Could not create graph directory", "dir", graphDir, "err", err)
	}

	jsonPath := filepath.Join(graphDir, "knowledge_graph.json")
	if err := graph.SaveJSON(jsonPath); err != nil {
		logger.Fatal("Could not write graph JSON", "err", err)
	}
	gexfPath := filepath.Join(graphDir, "knowledge_graph.gexf")
	if err := graph.SaveGEXF(gexfPath); err != nil {
		logger.Fatal("Could not write graph GEXF", "err", err)
	}
	dotPath := filepath.Join(graphDir, "knowledge_graph.dot")
	if err := graph.SaveDOT(ctx, dotPath); err != nil {
		logger.Fatal("Could not write graph DOT", "err", err)
	}

	logger.Info("Graph saved", "dir", graphDir)
}
