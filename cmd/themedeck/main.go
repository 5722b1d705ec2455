package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/glizzus/themedeck"
	"github.com/glizzus/themedeck/deck"
	"github.com/glizzus/themedeck/generator"
	"github.com/glizzus/themedeck/theme"
	"github.com/schollz/progressbar/v3"
)

var (
	ollamaServer = flag.String("ollama", "http://localhost:11434", "Address of running ollama server")
	model        = flag.String("model", "", "Model to generate with (default llama3.2 for ollama, gpt-4o-mini for OpenAI)")
	openAI       = flag.Bool("openai", false, "Use OpenAI instead of ollama")
	openAIURL    = flag.String("openai-url", "", "Base URL override for the OpenAI API")
	dbPath       = flag.String("db", "./themedeck.db", "Path to theme history database")
	templatePath = flag.String("template", "", "Existing .pptx to restyle instead of building a new deck")
	quiet        = flag.Bool("quiet", false, "Do not echo model output, show a spinner instead")
	listCount    = flag.Int("list", 0, "List the N most recent themes and exit")
	reuseId      = flag.Int("reuse", 0, "Rebuild a deck from the stored theme with this id, without a model call")
	servePort    = flag.String("serve", "", "Port to serve the theme gallery on")
)

const systemPrompt = `You are tasked with generating a JSON object
that recommends colors and typefaces for a PowerPoint presentation.
Use sound UI/UX and typography principles. Provide a brief reason for EVERY choice.

Requirements for your JSON response:
1. All color codes must be 6-digit uppercase hex values (e.g., "#FFFFFF").
2. Include one background color and a set of theme colors.
3. Include a header font and a body typeface.
4. Return valid JSON`

// readUntilEmptyLine reads lines from r until the first blank line or EOF
// and returns them joined.
func readUntilEmptyLine(r io.Reader) (string, error) {
	var sb strings.Builder

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	return sb.String(), sc.Err()
}

// outputPath returns the destination for the generated deck, output.pptx in
// the directory given as the positional argument (default current dir).
func outputPath() string {
	dir := "."
	if flag.NArg() > 0 {
		dir = flag.Arg(0)
	}
	return filepath.Join(dir, "output.pptx")
}

// writeDeck renders doc into a .pptx at outpath, either restyling the
// template file or building a fresh deck. Per-color edit failures are
// printed and do not fail the write.
func writeDeck(outpath string, doc *theme.Document) error {
	var (
		pptx []byte
		errs []error
		err  error
	)
	if *templatePath != "" {
		pptx, errs, err = deck.Restyle(*templatePath, doc)
	} else {
		var base []byte
		base, err = deck.New(deck.PlaceholderTitle)
		if err != nil {
			return err
		}
		pptx, errs, err = deck.ApplyTheme(base, doc)
	}
	if err != nil {
		return err
	}
	for _, e := range errs {
		fmt.Println(e)
	}

	return os.WriteFile(outpath, pptx, 0644)
}

func runList(ctx context.Context, db *themedeck.DB, n int) error {
	recs, err := db.RecentThemes(ctx, n)
	if err != nil {
		return err
	}

	for i, rec := range recs {
		prompt := strings.TrimSpace(rec.Prompt)
		if prompt == "" {
			prompt = "(empty prompt)"
		}
		fmt.Printf("Id %d    %s    %s/%s\nPrompt=%q\n", rec.Id, rec.CreatedAt.Format(time.DateTime), rec.Generator, rec.Model, prompt)
		if i < len(recs)-1 {
			fmt.Println("==========")
		}
	}

	return nil
}

func runReuse(ctx context.Context, db *themedeck.DB, id int) error {
	rec, err := db.GetTheme(ctx, id)
	if err != nil {
		return err
	}

	doc, err := theme.Parse([]byte(rec.ThemeJSON))
	if err != nil {
		return err
	}

	outpath := outputPath()
	if err := writeDeck(outpath, doc); err != nil {
		return err
	}
	fmt.Printf("Wrote %s from theme %d\n", outpath, rec.Id)

	return nil
}

func runGenerate(ctx context.Context, td *themedeck.ThemeDeck, db *themedeck.DB) error {
	if !td.IsHealthy() {
		return fmt.Errorf("server is not responding")
	}

	prompt, err := readUntilEmptyLine(os.Stdin)
	if err != nil {
		return err
	}

	req := generator.Request{
		System: systemPrompt,
		Prompt: prompt,
		Format: theme.SchemaJSON(),
	}

	var bar *progressbar.ProgressBar
	if *quiet {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("Generating theme"),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionOnCompletion(func() { fmt.Println() }),
		)
		req.OnToken = func(string) { bar.Add(1) }
	} else {
		req.OnToken = func(tok string) { fmt.Print(tok) }
	}

	raw, err := td.Generate(ctx, req)
	if bar != nil {
		bar.Finish()
	} else {
		fmt.Println()
	}
	if err != nil {
		return err
	}

	doc, err := theme.Parse([]byte(raw))
	if err != nil {
		return err
	}

	outpath := outputPath()
	if err := writeDeck(outpath, doc); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", outpath)

	rec := &themedeck.ThemeRecord{
		Prompt:    prompt,
		Generator: td.Name(),
		Model:     td.Model(),
		ThemeJSON: raw,
		CreatedAt: time.Now(),
	}
	if err := db.SaveTheme(ctx, rec); err != nil {
		// The deck is already on disk, losing the history row is not fatal
		fmt.Printf("error recording theme: %s\n", err)
	}

	return nil
}

func run(ctx context.Context) error {
	db, err := themedeck.NewDB(ctx, *dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	switch {
	case *listCount > 0:
		return runList(ctx, db, *listCount)
	case *reuseId > 0:
		return runReuse(ctx, db, *reuseId)
	case *servePort != "":
		return runServe(ctx, db, *servePort)
	}

	tio := themedeck.InitOptions{}
	if *openAI {
		tio.OpenAI = true
		tio.OpenAIModel = *model
		tio.OpenAIBaseURL = *openAIURL
	} else {
		tio.OllamaServer = *ollamaServer
		tio.OllamaModel = *model
	}

	td, err := themedeck.Init(tio)
	if err != nil {
		return err
	}

	return runGenerate(ctx, td, db)
}

func main() {
	flag.Parse()

	var modes int
	if *listCount > 0 {
		modes++
	}
	if *reuseId > 0 {
		modes++
	}
	if *servePort != "" {
		modes++
	}
	if modes > 1 {
		// list, reuse and serve each have to act alone
		flag.Usage()
		os.Exit(1)
	}

	sigch := make(chan os.Signal, 2)
	signal.Notify(sigch, os.Interrupt)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-sigch
		cancel()
	}()

	if err := run(ctx); err != nil {
		log.Fatal(err)
	}
}
