package debugui

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/scenesync/ecs"
	"github.com/plus3/scenesync/render"
)

// Browser columns, in table order.
const (
	columnEntity = iota
	columnKinds
	columnPosition
	columnZIndex
	columnVisible
)

// SceneBrowser lists every entity that has visuals, with its graphic kinds,
// container position and visibility. The selected entity can be shown,
// hidden or, when it has text, edited in place.
type SceneBrowser struct {
	system  *render.System
	perPage int

	rows          []render.VisualInfo
	filter        string
	page          int
	sortColumn    int
	sortAscending bool

	selected ecs.EntityId
	editText string
	offset   [2]float32
	lastErr  error
}

// NewSceneBrowser creates a browser over system's visuals.
func NewSceneBrowser(system *render.System, perPage int) *SceneBrowser {
	x, y := system.Offset()
	return &SceneBrowser{
		system:        system,
		perPage:       max(perPage, 1),
		sortAscending: true,
		offset:        [2]float32{float32(x), float32(y)},
	}
}

// Selected returns the selected entity, or zero.
func (b *SceneBrowser) Selected() ecs.EntityId {
	return b.selected
}

// Render draws the browser window.
func (b *SceneBrowser) Render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(460, 420), imgui.CondOnce)

	if !imgui.BeginV("Scene Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	b.refresh()

	imgui.InputTextWithHint("##search", "Search...", &b.filter, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		b.filter = ""
		b.page = 0
	}

	rows := filterVisuals(b.rows, b.filter)
	b.renderTable(rows)
	b.renderPager(len(rows))

	imgui.Separator()
	b.renderOffset()
	b.renderSelected()

	imgui.End()
}

func (b *SceneBrowser) refresh() {
	b.rows = b.rows[:0]
	for info := range b.system.Visuals() {
		b.rows = append(b.rows, info)
	}
	sortVisuals(b.rows, b.sortColumn, b.sortAscending)
}

func (b *SceneBrowser) renderTable(rows []render.VisualInfo) {
	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if !imgui.BeginTableV("VisualTable", 5, tableFlags, imgui.NewVec2(0, 220), 0) {
		return
	}

	imgui.TableSetupColumn("Entity")
	imgui.TableSetupColumn("Kinds")
	imgui.TableSetupColumn("Position")
	imgui.TableSetupColumn("Z")
	imgui.TableSetupColumn("Visible")
	imgui.TableHeadersRow()

	sortSpecs := imgui.TableGetSortSpecs()
	if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
		spec := sortSpecs.Specs()
		b.sortColumn = int(spec.ColumnIndex())
		b.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
		sortVisuals(rows, b.sortColumn, b.sortAscending)
		sortSpecs.SetSpecsDirty(false)
	}

	start, end := pageBounds(len(rows), b.page, b.perPage)
	for _, info := range rows[start:end] {
		imgui.TableNextRow()

		imgui.TableNextColumn()
		if imgui.SelectableBoolV(strconv.FormatUint(uint64(info.Entity), 10), b.selected == info.Entity, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
			b.selected = info.Entity
			b.editText = ""
			if t := ecs.ReadComponent[render.Text](b.system.Storage(), info.Entity); t != nil {
				b.editText = t.Content
			}
		}

		imgui.TableNextColumn()
		imgui.Text(strings.Join(info.Kinds, ", "))

		imgui.TableNextColumn()
		imgui.Text(fmt.Sprintf("%.1f, %.1f", info.X, info.Y))

		imgui.TableNextColumn()
		imgui.Text(strconv.Itoa(info.ZIndex))

		imgui.TableNextColumn()
		imgui.Text(strconv.FormatBool(info.Visible))
	}

	imgui.EndTable()
}

func (b *SceneBrowser) renderPager(total int) {
	if total <= b.perPage {
		imgui.Text(fmt.Sprintf("Total: %d entities", total))
		return
	}

	pages := (total + b.perPage - 1) / b.perPage
	b.page = min(b.page, pages-1)
	imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", b.page+1, pages, total))
	imgui.SameLine()
	if imgui.Button("Prev") && b.page > 0 {
		b.page--
	}
	imgui.SameLine()
	if imgui.Button("Next") && b.page < pages-1 {
		b.page++
	}
}

func (b *SceneBrowser) renderOffset() {
	imgui.SetNextItemWidth(80)
	changed := imgui.InputFloat("Offset X", &b.offset[0])
	imgui.SameLine()
	imgui.SetNextItemWidth(80)
	changed = imgui.InputFloat("Offset Y", &b.offset[1]) || changed
	if changed {
		b.system.SetOffset(float64(b.offset[0]), float64(b.offset[1]))
	}
}

func (b *SceneBrowser) renderSelected() {
	if b.selected == 0 {
		return
	}
	info, ok := b.system.Visual(b.selected)
	if !ok {
		b.selected = 0
		return
	}

	imgui.Text(fmt.Sprintf("Entity %d: %s", info.Entity, info.Container.Name))

	if imgui.Button("Show") {
		b.lastErr = b.system.Show(info.Entity)
	}
	imgui.SameLine()
	if imgui.Button("Hide") {
		b.lastErr = b.system.Hide(info.Entity)
	}

	if slices.Contains(info.Kinds, "text") {
		if imgui.InputTextWithHint("##text", "Text", &b.editText, imgui.InputTextFlagsNone, nil) {
			b.lastErr = b.system.SetText(info.Entity, b.editText)
		}
	}

	if b.lastErr != nil {
		imgui.TextColored(imgui.NewVec4(1, 0.4, 0.4, 1), b.lastErr.Error())
	}
}

// filterVisuals keeps rows whose entity id or kind names contain text.
func filterVisuals(rows []render.VisualInfo, text string) []render.VisualInfo {
	if text == "" {
		return rows
	}

	needle := strings.ToLower(text)
	filtered := make([]render.VisualInfo, 0, len(rows))
	for _, info := range rows {
		id := strconv.FormatUint(uint64(info.Entity), 10)
		if strings.Contains(id, needle) || strings.Contains(strings.Join(info.Kinds, " "), needle) {
			filtered = append(filtered, info)
		}
	}
	return filtered
}

func sortVisuals(rows []render.VisualInfo, column int, ascending bool) {
	slices.SortStableFunc(rows, func(a, b render.VisualInfo) int {
		var c int
		switch column {
		case columnKinds:
			c = cmp.Compare(strings.Join(a.Kinds, ","), strings.Join(b.Kinds, ","))
		case columnPosition:
			c = cmp.Or(cmp.Compare(a.Y, b.Y), cmp.Compare(a.X, b.X))
		case columnZIndex:
			c = cmp.Compare(a.ZIndex, b.ZIndex)
		case columnVisible:
			c = boolCompare(a.Visible, b.Visible)
		}
		c = cmp.Or(c, cmp.Compare(a.Entity, b.Entity))
		if !ascending {
			return -c
		}
		return c
	})
}

func boolCompare(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

func pageBounds(total, page, perPage int) (start, end int) {
	start = min(page*perPage, total)
	end = min(start+perPage, total)
	return start, end
}
