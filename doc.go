// Package simplerag embeds the semantic retrieval pipeline in a Go program.
//
// A Client stores short multilingual documents, each tagged with one locale,
// and answers free-text queries with the most similar documents.
//
//	emb := simplerag.NewOpenAIEmbedder(os.Getenv("OPENAI_API_KEY"), "text-embedding-3-small", 1536)
//	client, _ := simplerag.New(
//	    simplerag.WithValkey("localhost:6379", ""),
//	    simplerag.WithEmbedder(emb),
//	)
//	defer client.Close()
//
//	_ = client.Seed(ctx)
//	matches, _ := client.Search(ctx, "vela de cera", simplerag.TopK(1), simplerag.InLocale("pt-BR"))
//
// WithMemory keeps everything in process, which is handy for tests and demos.
package simplerag
