/*
Package operation applies one merge decision to the filesystem.

	+-------------+
	|  Conflict   |
	|  (Policy)   |
	+------+------+
	       |
	+------+------+
	|  Operation  |
	| (Copy/Move) |
	+------+------+

🎯 Purpose:
- Applies the conflict policy when the destination already exists
- Copies, moves or only logs the file
- Converts I/O failures into a Failed result instead of an error return

🔄 Flow:
1. Check whether the destination exists
2. Existing destination: DeleteSource removes the source and stops,
   OverwriteAlways allows overwrite, OverwriteIfIdentical asks the
   classifier, Skip stops
3. Run the operation: Copy writes the bytes, Move renames or copies
   then deletes, DryRun logs what would happen

⚠️ Known Gaps:
- The existence check and the write are separate steps. A file created at
  the destination in between is not detected, except by the exclusive
  create used when overwrite is not allowed. Move without overwrite uses
  a no-replace rename on Linux only; elsewhere the rename fast path can
  replace such a file.
- Move across volumes is a copy followed by a delete. A crash in between
  leaves both files; the source is never deleted before the copy succeeds.
- DeleteSource deletes the source even when the operation is DryRun.

🔍 Example:

	exec, err := operation.New(operation.Options{
		Operation:  config.OperationMove,
		Conflict:   config.ConflictOverwriteIfIdentical,
		Classifier: compare.NewClassifier(true, &logger),
		Logger:     &logger,
	})
	res := exec.Execute(ctx, file, "/photos/2022/2022-03-March/IMG_0001.JPG")
*/
package operation
