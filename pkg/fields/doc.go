// Package fields implements the nested field controller: the add and remove
// operations a form region performs on its variable length collection of
// sub-record blocks.
//
// Adding reads an inert template fragment, swaps its placeholder index
// ("[new_task]" or "[new_tasks]") for a fresh identifier, optionally stamps a
// discriminator value, and appends the result to the field container. Removing
// deletes blocks that were added in this session and hides persisted blocks
// after flipping their destroy marker, so the server still receives it.
//
// The controller works on a headless DOM (see package dom); a click is an
// Event whose Target is the clicked node.
package fields
