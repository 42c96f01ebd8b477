// Package harness provides conformance testing for query documents.
//
// The harness loads an entity schema and fixture rows, then runs every
// query step of a scenario through all backends: it serializes the query
// with the HQL and SQLite dialects, evaluates it in memory and, when the
// SQLite dialect can render it, executes it against a fixture database.
// Assertions compare the outcomes with each other and with the scenario's
// expectations.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	schema: ../schema              # directory of CUE entity files
//	fixtures: ../fixtures/pets.yaml
//	steps:
//	  - name: alive
//	    query:
//	      vars: {cat: Cat}
//	      select: {path: cat.name}
//	      from: [{source: {path: cat}}]
//	      where: [{path: cat.alive}]
//	    expect:
//	      rows: [Bob, Kate]
//	assertions:
//	  - type: serialized
//	    step: alive
//	    dialect: hql
//	    text: select cat.name from Cat cat where cat.alive
//	  - type: cross_check
//	    step: alive
//
// Query bodies use the node forms of package querydoc. Relative schema and
// fixture paths resolve against the scenario file's directory, or against an
// explicit base path with LoadScenarioWithBasePath.
//
// # Assertion Types
//
//   - serialized: the step renders to exactly the given text in a dialect
//   - row_count: in-memory evaluation yields exactly N rows
//   - rows_contain: every listed row appears in the in-memory result
//   - cross_check: SQLite execution yields the same rows as evaluation
//   - unsupported: the dialect cannot render the step
//
// # Deterministic Testing
//
// Every scenario runs against a private in-memory SQLite database loaded
// from the fixture file. Serialization and evaluation are pure, so the
// snapshot of a run is stable and suitable for golden file comparison.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/alive_cats.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(ctx, scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
