package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) string {
	t.Helper()
	var out bytes.Buffer
	ok := Interpret(src, &out)
	require.True(t, ok, "expected a clean run, got: %s", out.String())
	return out.String()
}

func TestArithmeticAndPrint(t *testing.T) {
	assert.Equal(t, "7", run(t, `print(1 + 2 * 3)`))
}

func TestConditionalChain(t *testing.T) {
	src := `
x = 10
if x < 5 then
    print("lt")
else if x == 10 then
    print("eq")
else
    print("gt")
end if
`
	assert.Equal(t, "eq", run(t, src))
}

func TestForRangeWithStep(t *testing.T) {
	src := `
for i in range(0, 6, 2)
    print(i)
    print(" ")
end for
`
	assert.Equal(t, "0 2 4 ", run(t, src))
}

func TestFunctionRecursionReturn(t *testing.T) {
	src := `
fact = function(n)
    if n == 0 then return 1 end if
    return n * fact(n - 1)
end function
print(fact(5))
`
	assert.Equal(t, "120", run(t, src))
}

func TestListMutationViaAlias(t *testing.T) {
	src := `
a = [1, 2, 3]
b = a
push(b, 4)
println(len(a))
`
	assert.Equal(t, "4\n", run(t, src))
}

func TestCallStackTrace(t *testing.T) {
	src := `
foo = function()
    println(stacktrace())
end function
println(stacktrace())
foo()
println(stacktrace())
`
	assert.Equal(t, "[]\n[foo]\n[]\n", run(t, src))
}

func TestScopeShadowingDoesNotLeakOut(t *testing.T) {
	src := `
x = 1
f = function()
    x = 2
end function
f()
print(x)
`
	assert.Equal(t, "1", run(t, src))
}

func TestLoopVariableSurvivesLoop(t *testing.T) {
	src := `
for i in range(3)
end for
print(i)
`
	assert.Equal(t, "2", run(t, src))
}

func TestBreakOnlyExitsInnermostLoop(t *testing.T) {
	src := `
count = 0
for i in range(3)
    if i == 1 then
        break
    end if
    count += 1
end for
print(count)
`
	assert.Equal(t, "1", run(t, src))
}

func TestContinueSkipsRestOfIteration(t *testing.T) {
	src := `
total = 0
for i in range(4)
    if i == 2 then
        continue
    end if
    total += i
end for
print(total)
`
	assert.Equal(t, "4", run(t, src))
}

func TestBreakInsideFunctionIsCallErrorNotCallerBreak(t *testing.T) {
	src := `
f = function()
    break
end function
count = 0
for i in range(3)
    f()
    count += 1
end for
print(count)
`
	var out bytes.Buffer
	ok := Interpret(src, &out)
	assert.False(t, ok, "a bare break inside a function must not be swallowed by the caller's loop")
	assert.Contains(t, out.String(), "CallError")
}

func TestContinueInsideFunctionIsCallError(t *testing.T) {
	src := `
f = function()
    continue
end function
f()
`
	var out bytes.Buffer
	ok := Interpret(src, &out)
	assert.False(t, ok)
	assert.Contains(t, out.String(), "CallError")
}

func TestNegativeRepetitionIsArithError(t *testing.T) {
	var out bytes.Buffer
	ok := Interpret(`print("ab" * -1)`, &out)
	assert.False(t, ok)
	assert.Contains(t, out.String(), "ArithError")
}

func TestBuiltinArityMismatchIsArgError(t *testing.T) {
	var out bytes.Buffer
	ok := Interpret(`len(1, 2)`, &out)
	assert.False(t, ok)
	assert.Contains(t, out.String(), "ArgError")
}

func TestBuiltinArityOnlyCheckedIfReached(t *testing.T) {
	src := `
if false then
    len(1, 2)
end if
print("ok")
`
	assert.Equal(t, "ok", run(t, src))
}

func TestUndefinedVariableIsNameError(t *testing.T) {
	var out bytes.Buffer
	ok := Interpret(`print(nope)`, &out)
	assert.False(t, ok)
	assert.Contains(t, out.String(), "NameError")
}

func TestDivisionByZeroIsArithError(t *testing.T) {
	var out bytes.Buffer
	ok := Interpret(`print(1 / 0)`, &out)
	assert.False(t, ok)
	assert.Contains(t, out.String(), "ArithError")
}

func TestCallingNonFunctionIsCallError(t *testing.T) {
	var out bytes.Buffer
	ok := Interpret(`x = 1
x()`, &out)
	assert.False(t, ok)
	assert.Contains(t, out.String(), "CallError")
}

func TestIndexOutOfRangeIsRangeError(t *testing.T) {
	var out bytes.Buffer
	ok := Interpret(`a = [1]
print(a[5])`, &out)
	assert.False(t, ok)
	assert.Contains(t, out.String(), "RangeError")
}

func TestPersistentEvalSharesGlobalScope(t *testing.T) {
	var out bytes.Buffer
	it := New(Options{Stdout: &out})

	_, err := it.Eval(`x = 41`)
	require.NoError(t, err)

	v, err := it.Eval(`x + 1`)
	require.NoError(t, err)
	assert.Equal(t, "42", v.String())
}

func TestPersistentEvalSurvivesAFailingSnippet(t *testing.T) {
	var out bytes.Buffer
	it := New(Options{Stdout: &out})

	_, err := it.Eval(`x = 1`)
	require.NoError(t, err)

	_, err = it.Eval(`print(nope)`)
	require.Error(t, err)

	v, err := it.Eval(`x`)
	require.NoError(t, err)
	assert.Equal(t, "1", v.String())
}

func TestReadReusesOneBufferedReaderAcrossCalls(t *testing.T) {
	var out bytes.Buffer
	it := New(Options{
		Stdin:  strings.NewReader("first\nsecond\nthird\n"),
		Stdout: &out,
	})

	src := `
println(read())
println(read())
println(read())
`
	_, err := it.Eval(src)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\nthird\n", out.String())
}

func TestSliceBounds(t *testing.T) {
	src := `
a = [1, 2, 3, 4, 5]
b = a[1:3]
print(len(b))
`
	assert.Equal(t, "2", run(t, src))
}

func TestStringReplaceAndSplitJoin(t *testing.T) {
	src := `
s = "a,b,c"
parts = split(s, ",")
print(join(parts, "-"))
`
	assert.Equal(t, "a-b-c", run(t, src))
}

func TestParseNumToStringRoundTrip(t *testing.T) {
	src := `
for n in [0, 7, 42, 100500]
    if parse_num(to_string(n)) != n then
        print("mismatch")
    end if
end for
print("ok")
`
	assert.Equal(t, "ok", run(t, src))
}

func TestForEachOverString(t *testing.T) {
	src := `
for ch in "abc"
    print(ch)
    print("-")
end for
`
	assert.Equal(t, "a-b-c-", run(t, src))
}

func TestStringIndexAndSlice(t *testing.T) {
	src := `
s = "hello"
print(s[1])
print(s[1:3])
print(s[3:])
`
	assert.Equal(t, "eello", run(t, src))
}

func TestWhileLoop(t *testing.T) {
	src := `
n = 0
sum = 0
while n < 5
    sum += n
    n += 1
end while
print(sum)
`
	assert.Equal(t, "10", run(t, src))
}

func TestFunctionStoredInListSurvivesRetrievalAndCall(t *testing.T) {
	src := `
double = function(x)
    return x * 2
end function
fns = [double]
f = fns[0]
print(f(21))
print(f(5))
`
	assert.Equal(t, "4210", run(t, src))
}

func TestCallStackBalancesAfterFailingCall(t *testing.T) {
	var out bytes.Buffer
	it := New(Options{Stdout: &out})

	_, err := it.Eval(`
boom = function()
    x = 1 / 0
end function
boom()
`)
	require.Error(t, err)

	out.Reset()
	_, err = it.Eval(`println(stacktrace())`)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out.String())
}

func TestReturnOutsideFunctionIsCallError(t *testing.T) {
	var out bytes.Buffer
	ok := Interpret(`return 1`, &out)
	assert.False(t, ok)
	assert.Contains(t, out.String(), "CallError")
}

func TestShortCircuitAndOr(t *testing.T) {
	src := `
ok = false or true
bad = false and undefined_name
print(ok)
print(" ")
print(bad)
`
	assert.Equal(t, "true false", run(t, src))
}

func TestNestedListPrinting(t *testing.T) {
	src := `println([1, [2, 3], "x", nil, true])`
	assert.Equal(t, "[1, [2, 3], x, nil, true]\n", run(t, src))
}

func TestSortRemoveInsert(t *testing.T) {
	src := `
l = [3, 1, 2]
sort(l)
insert(l, 0, 0)
remove(l, 3)
println(l)
`
	assert.Equal(t, "[0, 1, 2]\n", run(t, src))
}
