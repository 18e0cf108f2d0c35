// Package ementa is an in-process Go client for judicial decision analysis.
//
// It loads a decision file into a session, browses and filters it, runs
// keyword analyses and renders the CSV and PDF exports without going through
// the HTTP API. Sessions live in memory by default or in Valkey when shared
// between processes.
//
//	client, _ := ementa.New(ctx)
//	defer client.Close()
//
//	s, _ := client.Sessions().Open(ctx, file)
//	page, _ := client.Sessions().Browse(ctx, s.ID, ementa.Filter{Court: "STF"}, 1)
//	res, _ := client.Sessions().Analyze(ctx, s.ID, ementa.AnalysisRequest{
//	    Terms: []string{"dano moral", "habeas corpus"},
//	})
//	pdf, _ := client.Sessions().Report(ctx, s.ID)
package ementa
