/*
Package config manages the merge policy and its optional configuration file.

	            +-------------+
	            |   Policy    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   JSON   | |   YAML   | |   HCL    |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Defines the merge policy consumed by the merge engine
- Defines the closed operation and conflict enums
- Loads optional policy files in several formats
- Holds the media extension configuration

🔄 Flow:
1. Start from DefaultPolicy
2. Overlay values present in a policy file (File.Apply)
3. Overlay explicitly set command line flags (done by the CLI)
4. Validate the result before any file is touched

🔍 Example:

	policy := config.DefaultPolicy()
	file, err := config.Load(ctx, "mediamerge.yaml")
	if err != nil {
		return err
	}
	if err := file.Apply(&policy); err != nil {
		return err
	}
	if err := policy.Validate(); err != nil {
		return err
	}
*/
package config
