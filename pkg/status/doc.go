/*
Package status tracks what happened to every file of a merge run.

	            +-------------+
	            |   Tracker   |
	            |  (Entries)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|  Summary  |           | Console |
	|  (Counts) |           | (UI/UX) |
	+-----------+           +---------+

🎯 Purpose:
- Records one Entry per file the merge engine looked at
- Counts entries per Outcome for the end-of-run summary
- Renders user-facing lines for each outcome

🔄 Flow:
1. The merge engine reports an Entry after each file decision
2. The tracker stores it, logs it and optionally prints a console line
3. The CLI reads the Summary once the run is complete

🔍 Example:

	tracker := status.NewTracker(os.Stdout, &logger)
	merger, err := merge.New(merge.Options{Reporter: tracker, ...})
	...
	summary, err := merger.Run(ctx, sources)
	fmt.Println(summary)
*/
package status
