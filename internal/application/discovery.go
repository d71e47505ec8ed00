package application

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// maxDatasets is the number of dataset tags (D1..D5) the shipped
// benchmark suite defines.
const maxDatasets = 5

// DiscoverUnits pairs question files with their CSV tables by the
// shipped naming convention: questionsDir holds
// dataset_<n>_questions.json and csvDir holds one or more D<n>*.csv per
// dataset. Every matching CSV becomes its own unit tagged D<n>, sorted
// by file name within a tag. A dataset with a missing question file is
// skipped; zero discovered units is an error.
func DiscoverUnits(questionsDir, csvDir string) ([]FileUnit, error) {
	entries, err := os.ReadDir(csvDir)
	if err != nil {
		return nil, fmt.Errorf("reading csv directory: %w", err)
	}

	csvsByTag := make(map[string][]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".csv") {
			continue
		}
		for i := 1; i <= maxDatasets; i++ {
			tag := fmt.Sprintf("D%d", i)
			if strings.HasPrefix(name, tag) {
				csvsByTag[tag] = append(csvsByTag[tag], filepath.Join(csvDir, name))
				break
			}
		}
	}

	var units []FileUnit
	for i := 1; i <= maxDatasets; i++ {
		tag := fmt.Sprintf("D%d", i)
		csvs := csvsByTag[tag]
		if len(csvs) == 0 {
			continue
		}
		sort.Strings(csvs)

		questionsPath := filepath.Join(questionsDir, fmt.Sprintf("dataset_%d_questions.json", i))
		if _, err := os.Stat(questionsPath); err != nil {
			continue
		}

		for _, csvPath := range csvs {
			units = append(units, FileUnit{
				QuestionsPath: questionsPath,
				TablePath:     csvPath,
				Tag:           tag,
			})
		}
	}

	if len(units) == 0 {
		return nil, fmt.Errorf("no question/csv pairs found under %s and %s", questionsDir, csvDir)
	}
	return units, nil
}
