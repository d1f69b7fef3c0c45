/*

Process of compilation

Expression Tree (front) ->
	lower ->
Block Graph (ir) ->
	add incoming, validate tree ->
	normalize, validate tree ->
	validate slots ->
	sort ->
Ordered Blocks ->
	flatten ->
Instruction Stream ->
	verify ops for version and mode ->
	assign slots ->
	assemble constants (optional) ->
	format ->
Program Text

*/
package compiler
