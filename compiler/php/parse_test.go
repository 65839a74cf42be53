package php

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const canonicalModule = `<?php

/**
 * @file
 * Hooks of the kitchen module.
 */

use Drupal\Core\Render\Element;

/**
 * Implements hook_theme().
 */
function kitchen_theme() {
  $hooks = [
    'recipe' => [
      'render element' => 'elements',
      'template' => 'recipe',
    ],
  ];
  return $hooks;
}

function kitchen_helper($a, $b = []) {
  if ($a) {
    return $b;
  }
  else {
    return [];
  }

  // Unreachable.
  return NULL;
}
`

func TestParseFileRoundTrip(t *testing.T) {
	f, err := ParseFile(canonicalModule)
	require.NoError(t, err)
	require.Len(t, f.Nodes, 4)

	assert.IsType(t, &RawNode{}, f.Nodes[0])
	assert.Equal(t, "use Drupal\\Core\\Render\\Element;", f.Nodes[1].(*RawNode).Text)

	theme := f.Func("kitchen_theme")
	require.NotNil(t, theme)
	assert.Equal(t, "()", theme.Signature)
	assert.Contains(t, theme.Doc, "Implements hook_theme().")
	require.Len(t, theme.Body, 2)
	assign, ok := theme.Body[0].(*Assign)
	require.True(t, ok)
	assert.Equal(t, Var("hooks"), assign.Target)
	hooks := assign.Value.(*Array)
	recipe, ok := hooks.Get("recipe")
	require.True(t, ok)
	assert.Equal(t, []string{"render element", "template"}, recipe.(*Array).Keys())
	assert.Equal(t, &Return{Value: Var("hooks")}, theme.Body[1])

	helper := f.Func("KITCHEN_HELPER")
	require.NotNil(t, helper)
	assert.Equal(t, "($a, $b = [])", helper.Signature)
	require.Len(t, helper.Body, 4)
	assert.IsType(t, &Raw{}, helper.Body[0])
	assert.IsType(t, &Blank{}, helper.Body[1])
	assert.Equal(t, &Raw{Code: "// Unreachable."}, helper.Body[2])

	assert.Equal(t, canonicalModule, f.Print())
}

func TestParseFileCanonicalizesEditedFunctions(t *testing.T) {
	theme := "function kitchen_theme()\n" +
		"{\n" +
		"    $hooks = array(\"recipe\" => array('render element' => 'elements'), 'x' => $y, 3 => 'three');\n" +
		"    // Keep this.\n" +
		"    return $hooks;\n" +
		"}\n"
	helper := "function kitchen_helper() {\n" +
		"    return array('a' => 1);\n" +
		"}\n"
	f, err := ParseFile("<?php\n" + theme + helper)
	require.NoError(t, err)
	assert.Equal(t, "<?php\n\n"+theme+"\n"+helper, f.Print())

	hooks := f.Func("kitchen_theme").Body[0].(*Assign).Value.(*Array)
	hooks.Set("pantry", Assoc("template", "pantry"))

	want := `<?php

function kitchen_theme() {
  $hooks = [
    'recipe' => [
      'render element' => 'elements',
    ],
    'x' => $y,
    3 => 'three',
    'pantry' => [
      'template' => 'pantry',
    ],
  ];
  // Keep this.
  return $hooks;
}

function kitchen_helper() {
    return array('a' => 1);
}
`
	assert.Equal(t, want, f.Print())

	again, err := ParseFile(f.Print())
	require.NoError(t, err)
	assert.Equal(t, want, again.Print())
}

func TestParseFileIndexAssignments(t *testing.T) {
	src := `<?php

function document_entity_bundle_info() {
  $bundles['document']['report'] = [
    'label' => t('Report'),
  ];
  $bundles["document"][3] = ['label' => 'Three'];
  $bundles[$type]['x'] = [];
  return $bundles;
}
`
	f, err := ParseFile(src)
	require.NoError(t, err)
	body := f.Func("document_entity_bundle_info").Body
	require.Len(t, body, 4)

	report := body[0].(*Assign)
	assert.Equal(t, &Index{X: &Index{X: Var("bundles"), Key: Str("document")}, Key: Str("report")}, report.Target)
	label, ok := report.Value.(*Array).Get("label")
	require.True(t, ok)
	assert.Equal(t, RawExpr("t('Report')"), label)

	three := body[1].(*Assign)
	assert.Equal(t, &Index{X: &Index{X: Var("bundles"), Key: Str("document")}, Key: Int(3)}, three.Target)
	assert.IsType(t, &Raw{}, body[2])
	assert.Equal(t, src, f.Print())
}

func TestParseFileKeepsUnknownCode(t *testing.T) {
	src := `<?php

namespace Drupal\kitchen;

function kitchen_page_attachments(array &$attachments) {
  $s = <<<EOT
a } b;
EOT;
  $callback = function ($x) {
    return $x + 1;
  };
  try {
    kitchen_run($callback);
  }
  catch (\Exception $e) {
    watchdog_exception('kitchen', $e);
  }
  $items = [
    // Comment entry.
    'a' => 'it\'s',
    'b' => fn($x) => [$x],
    'c' => "double $quoted",
  ];
  return $s;
}

if (!function_exists('kitchen_legacy')) {
  function kitchen_legacy() {
  }
}

?>
`
	f, err := ParseFile(src)
	require.NoError(t, err)
	fn := f.Func("kitchen_page_attachments")
	require.NotNil(t, fn)
	require.Len(t, fn.Body, 5)
	assert.True(t, fn.Body[0].(*Raw).Verbatim)

	items := fn.Body[3].(*Assign).Value.(*Array)
	assert.Equal(t, "// Comment entry.", items.Items[0].Comment)
	a, _ := items.Get("a")
	assert.Equal(t, Str("it's"), a)
	b, _ := items.Get("b")
	assert.Equal(t, RawExpr("fn($x) => [$x]"), b)
	c, _ := items.Get("c")
	assert.Equal(t, RawExpr(`"double $quoted"`), c)

	assert.Nil(t, f.Func("kitchen_legacy"))
	assert.Equal(t, "?>", f.Nodes[len(f.Nodes)-1].(*RawNode).Text)

	printed := f.Print()
	assert.Contains(t, printed, "  $s = <<<EOT\na } b;\nEOT;\n")
	assert.Contains(t, printed, "  try {\n    kitchen_run($callback);\n  }\n  catch (\\Exception $e) {\n")

	again, err := ParseFile(printed)
	require.NoError(t, err)
	assert.Equal(t, printed, again.Print())
}

func TestParseFileReturnArray(t *testing.T) {
	f, err := ParseFile("<?php\n\nfunction kitchen_theme() {\n  return ['x' => []];\n}\n")
	require.NoError(t, err)
	ret := f.Func("kitchen_theme").Body[0].(*Return)
	arr := ret.Value.(*Array)
	assert.Equal(t, []string{"x"}, arr.Keys())
}

func TestParseFileErrors(t *testing.T) {
	tests := map[string]string{
		"NoOpenTag":          "function x() {}\n",
		"UnterminatedString": "<?php\nfunction x() {\n  $a = 'open;\n}\n",
		"UnterminatedBody":   "<?php\nfunction x() {\n  foo();\n",
		"Mismatched":         "<?php\nfunction x() {\n  foo(];\n}\n",
		"UnterminatedDoc":    "<?php\n/** never closed\nfunction x() {}\n",
		"NoBody":             "<?php\nfunction x();\n",
		"StrayBrace":         "<?php\n}\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFile(src)
			assert.Error(t, err)
		})
	}
}

func TestSyntaxErrorLine(t *testing.T) {
	_, err := ParseFile("<?php\n\nfunction x() {\n  $a = \"open;\n}\n")
	var serr *SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 4, serr.Line)
}

func TestNewFile(t *testing.T) {
	f := NewFile("@file", "Hooks of the kitchen module.")
	f.Append(&Func{
		Doc:  DocBlock("Implements hook_theme()."),
		Name: "kitchen_theme",
		Body: []Stmt{
			&Assign{Target: Var("hooks"), Value: &Array{}},
			&Return{Value: Var("hooks")},
		},
	})
	assert.Equal(t, `<?php

/**
 * @file
 * Hooks of the kitchen module.
 */

/**
 * Implements hook_theme().
 */
function kitchen_theme() {
  $hooks = [];
  return $hooks;
}
`, f.Print())
}
