package chat

/*
	Static informational content rendered by the
	help / examples commands and the unrecognized-input
	fallback.
*/

const helpContent = `# Helix Help

## Setup
- ` + "`setup`" + ` - store your prediction service API key for this conversation
- ` + "`status`" + ` - check current configuration

## Predictions
- ` + "`predict sequence <DNA_SEQUENCE>`" + ` - predict from a raw DNA sequence
- ` + "`predict interval chr:start-end`" + ` - predict from a genomic interval
- ` + "`predict variant chr:pos:ref>alt`" + ` - analyze variant effects

## Scoring
- ` + "`score interval chr:start-end`" + ` - score a genomic interval
- ` + "`score variant chr:pos:ref>alt`" + ` - score a variant's functional impact

## Utilities
- ` + "`examples`" + ` - show example commands
- ` + "`batch`" + ` - process multiple inputs at once (one per line)
- ` + "`advanced`" + ` - configure organism, output types and ontology filters
- ` + "`cancel`" + ` - abandon any pending multi-turn mode

Coordinates are 0-based, end-exclusive for intervals and 1-based for variants.`

const examplesContent = `# Example Commands

## 1. Sequence Prediction
` + "```" + `
predict sequence ATCGATCGATCGATCGATCGATCGATCGATCGATCG
` + "```" + `

## 2. Interval Prediction
` + "```" + `
predict interval chr22:35677410-36677410
` + "```" + `

## 3. Variant Analysis
` + "```" + `
predict variant chr22:36201698:A>C
` + "```" + `

## 4. Interval Scoring
` + "```" + `
score interval chr1:1000000-1100000
` + "```" + `

## 5. Variant Scoring
` + "```" + `
score variant chr22:36201698:A>C
` + "```" + `

Sequences use the A, C, G, T, N alphabet (10 bp to 1,000,000 bp); intervals span
100 bp to 1,000,000 bp. Run ` + "`advanced`" + ` to change organism, output types or
ontology term filters before predicting.`

const batchPromptContent = `Batch mode: paste multiple inputs, one per line.
- sequences: raw DNA strings
- intervals: chr:start-end
- variants: chr:pos:ref>alt

Each line is validated independently; invalid lines are reported without
blocking the rest. Type ` + "`cancel`" + ` to abandon batch mode.`

const unrecognizedHint = `I did not recognize that command.

Here are some things you can try:
- ` + "`help`" + ` for detailed commands
- ` + "`examples`" + ` for sample predictions
- ` + "`setup`" + ` to configure your API key
- ` + "`predict sequence <DNA_SEQUENCE>`" + `
- ` + "`predict interval chr:start-end`" + `
- ` + "`predict variant chr:pos:ref>alt`"
