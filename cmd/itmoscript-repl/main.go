// Command itmoscript-repl is an interactive read-eval loop over a
// persistent interp.Interpreter. It buffers multi-line block input
// itself (the core interpreter only ever sees complete snippets): a
// depth counter increments on any line opening a block (if/for/while/
// function, or a line with more "[" than "]") and decrements on a
// matching "end ..." or a line closing with "]". Once
// depth returns to zero the accumulated text is handed to Eval.
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sirupsen/logrus"

	"github.com/nikitos212/itmoscript/interp"
)

var blockOpeners = []string{"if ", "for ", "while ", "function ", "function("}

func opensBlock(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, kw := range blockOpeners {
		if strings.HasPrefix(trimmed, kw) || strings.Contains(trimmed, "= "+kw) || strings.Contains(trimmed, "="+kw) {
			return true
		}
	}
	return strings.Count(trimmed, "[") > strings.Count(trimmed, "]")
}

func closesBlock(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "end") || strings.HasSuffix(trimmed, "]")
}

func main() {
	rl, err := readline.New("itmoscript> ")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer rl.Close()

	log := logrus.New()
	log.SetOutput(rl.Stderr())

	it := interp.New(interp.Options{Stdout: rl.Stdout(), Logger: log})

	var buf []string
	depth := 0

	for {
		prompt := "itmoscript> "
		if depth > 0 {
			prompt = "........ > "
		}
		rl.SetPrompt(prompt)

		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return
			}
			log.WithError(err).Warn("readline failed")
			continue
		}

		if opensBlock(line) {
			depth++
		} else if depth > 0 && closesBlock(line) {
			depth--
		}
		buf = append(buf, line)

		if depth > 0 {
			continue
		}

		src := strings.Join(buf, "\n")
		buf = buf[:0]
		if strings.TrimSpace(src) == "" {
			continue
		}
		if v, err := it.Eval(src); err == nil {
			fmt.Fprintln(rl.Stdout(), v.String())
		}
	}
}
