package matchck

import "testing"

// fixtures are matched against the diagnostics they are annotated with
var fixtures = map[string]string{
	"empty tuple": `
fn main() {
    match () { }
        //^^ missing match arm
    match (()) { }
        //^^^^ missing match arm

    match () { _ => (), }
    match () { () => (), }
    match (()) { (()) => (), }
}
`,
	"tuple of two empty tuple": `
fn main() {
    match ((), ()) { }
        //^^^^^^^^ missing match arm

    match ((), ()) { ((), ()) => (), }
}
`,
	"boolean": `
fn test_main() {
    match false { }
        //^^^^^ missing match arm
    match false { true => (), }
        //^^^^^ missing match arm
    match (false, true) {}
        //^^^^^^^^^^^^^ missing match arm
    match (false, true) { (true, true) => (), }
        //^^^^^^^^^^^^^ missing match arm
    match (false, true) {
        //^^^^^^^^^^^^^ missing match arm
        (false, true) => (),
        (false, false) => (),
        (true, false) => (),
    }
    match (false, true) { (true, _x) => (), }
        //^^^^^^^^^^^^^ missing match arm

    match false { true => (), false => (), }
    match (false, true) {
        (false, _) => (),
        (true, false) => (),
        (_, true) => (),
    }
    match (false, true) {
        (true, true) => (),
        (true, false) => (),
        (false, true) => (),
        (false, false) => (),
    }
    match (false, true) {
        (true, _x) => (),
        (false, true) => (),
        (false, false) => (),
    }
    match (false, true, false) {
        (false, ..) => (),
        (true, ..) => (),
    }
    match (false, true, false) {
        (.., false) => (),
        (.., true) => (),
    }
    match (false, true, false) { (..) => (), }
}
`,
	"tuple of tuple and bools": `
fn main() {
    match (false, ((), false)) {}
        //^^^^^^^^^^^^^^^^^^^^ missing match arm
    match (false, ((), false)) { (true, ((), true)) => (), }
        //^^^^^^^^^^^^^^^^^^^^ missing match arm
    match (false, ((), false)) { (true, _) => (), }
        //^^^^^^^^^^^^^^^^^^^^ missing match arm

    match (false, ((), false)) {
        (true, ((), true)) => (),
        (true, ((), false)) => (),
        (false, ((), true)) => (),
        (false, ((), false)) => (),
    }
    match (false, ((), false)) {
        (true, ((), true)) => (),
        (true, ((), false)) => (),
        (false, _) => (),
    }
}
`,
	"enums": `
enum Either { A, B, }

fn main() {
    match Either::A { }
        //^^^^^^^^^ missing match arm
    match Either::B { Either::A => (), }
        //^^^^^^^^^ missing match arm

    match &Either::B {
        //^^^^^^^^^^ missing match arm
        Either::A => (),
    }

    match Either::B {
        Either::A => (), Either::B => (),
    }
    match &Either::B {
        Either::A => (), Either::B => (),
    }
}
`,
	"enum containing bool": `
enum Either { A(bool), B }

fn main() {
    match Either::B { }
        //^^^^^^^^^ missing match arm
    match Either::B {
        //^^^^^^^^^ missing match arm
        Either::A(true) => (), Either::B => ()
    }

    match Either::B {
        Either::A(true) => (),
        Either::A(false) => (),
        Either::B => (),
    }
    match Either::B {
        Either::B => (),
        _ => (),
    }
    match Either::B {
        Either::A(_) => (),
        Either::B => (),
    }

}
`,
	"enum different sizes": `
enum Either { A(bool), B(bool, bool) }

fn main() {
    match Either::A(false) {
        //^^^^^^^^^^^^^^^^ missing match arm
        Either::A(_) => (),
        Either::B(false, _) => (),
    }

    match Either::A(false) {
        Either::A(_) => (),
        Either::B(true, _) => (),
        Either::B(false, _) => (),
    }
    match Either::A(false) {
        Either::A(true) | Either::A(false) => (),
        Either::B(true, _) => (),
        Either::B(false, _) => (),
    }
}
`,
	"tuple of enum no diagnostic": `
enum Either { A(bool), B(bool, bool) }
enum Either2 { C, D }

fn main() {
    match (Either::A(false), Either2::C) {
        (Either::A(true), _) | (Either::A(false), _) => (),
        (Either::B(true, _), Either2::C) => (),
        (Either::B(false, _), Either2::C) => (),
        (Either::B(_, _), Either2::D) => (),
    }
}
`,
	"or pattern no diagnostic": `
enum Either {A, B}

fn main() {
    match (Either::A, Either::B) {
        (Either::A | Either::B, _) => (),
    }
}
`,
	"mismatched types": `
enum Either { A, B }
enum Either2 { C, D }

fn main() {
    match Either::A {
        Either2::C => (),
    //  ^^^^^^^^^^ Internal: match check bailed out
        Either2::D => (),
    }
    match (true, false) {
        (true, false, true) => (),
    //  ^^^^^^^^^^^^^^^^^^^ Internal: match check bailed out
        (true) => (),
    }
    match (true, false) { (true,) => {} }
    //                    ^^^^^^^ Internal: match check bailed out
    match (0) { () => () }
            //  ^^ Internal: match check bailed out
    match Unresolved::Bar { Unresolved::Baz => () }
}
`,
	"mismatched types in or patterns": `
fn main() {
    match false { true | () => {} }
    //            ^^^^^^^^^ Internal: match check bailed out
    match (false,) { (true | (),) => {} }
    //               ^^^^^^^^^^^^ Internal: match check bailed out
}
`,
	"malformed match arm tuple enum missing pattern": `
enum Either { A, B(u32) }

fn main() {
    match Either::A {
        Either::A => (),
        Either::B() => (),
    }
}
`,
	"malformed match arm extra fields": `
enum A { B(isize, isize), C }
fn main() {
    match A::B(1, 2) {
        A::B(_, _, _) => (),
    //  ^^^^^^^^^^^^^ Internal: match check bailed out
    }
    match A::B(1, 2) {
        A::C(_) => (),
    //  ^^^^^^^ Internal: match check bailed out
    }
}
`,
	"expr diverges": `
enum Either { A, B }

fn main() {
    match loop {} {
        Either::A => (),
    //  ^^^^^^^^^ Internal: match check bailed out
        Either::B => (),
    }
    match loop {} {
        Either::A => (),
    //  ^^^^^^^^^ Internal: match check bailed out
    }
    match loop { break Foo::A } {
        //^^^^^^^^^^^^^^^^^^^^^ missing match arm
        Either::A => (),
    }
    match loop { break Foo::A } {
        Either::A => (),
        Either::B => (),
    }
}
`,
	"expr partially diverges": `
enum Either<T> { A(T), B }

fn foo() -> Either<!> { Either::B }
fn main() -> u32 {
    match foo() {
        Either::A(val) => val,
        Either::B => 0,
    }
}
`,
	"enum record": `
enum Either { A { foo: bool }, B }

fn main() {
    let a = Either::A { foo: true };
    match a { }
        //^ missing match arm
    match a { Either::A { foo: true } => () }
        //^ missing match arm
    match a {
        Either::A { } => (),
      //^^^^^^^^^ Missing structure fields:
      //        | - foo
        Either::B => (),
    }
    match a {
        //^ missing match arm
        Either::A { } => (),
    } //^^^^^^^^^ Missing structure fields:
      //        | - foo

    match a {
        Either::A { foo: true } => (),
        Either::A { foo: false } => (),
        Either::B => (),
    }
    match a {
        Either::A { foo: _ } => (),
        Either::B => (),
    }
}
`,
	"enum record fields out of order": `
enum Either {
    A { foo: bool, bar: () },
    B,
}

fn main() {
    let a = Either::A { foo: true, bar: () };
    match a {
        //^ missing match arm
        Either::A { bar: (), foo: false } => (),
        Either::A { foo: true, bar: () } => (),
    }

    match a {
        Either::A { bar: (), foo: false } => (),
        Either::A { foo: true, bar: () } => (),
        Either::B => (),
    }
}
`,
	"enum record ellipsis": `
enum Either {
    A { foo: bool, bar: bool },
    B,
}

fn main() {
    let a = Either::B;
    match a {
        //^ missing match arm
        Either::A { foo: true, .. } => (),
        Either::B => (),
    }
    match a {
        //^ missing match arm
        Either::A { .. } => (),
    }

    match a {
        Either::A { foo: true, .. } => (),
        Either::A { foo: false, .. } => (),
        Either::B => (),
    }

    match a {
        Either::A { .. } => (),
        Either::B => (),
    }
}
`,
	"enum tuple partial ellipsis": `
enum Either {
    A(bool, bool, bool, bool),
    B,
}

fn main() {
    match Either::B {
        //^^^^^^^^^ missing match arm
        Either::A(true, .., true) => (),
        Either::A(true, .., false) => (),
        Either::A(false, .., false) => (),
        Either::B => (),
    }
    match Either::B {
        //^^^^^^^^^ missing match arm
        Either::A(true, .., true) => (),
        Either::A(true, .., false) => (),
        Either::A(.., true) => (),
        Either::B => (),
    }

    match Either::B {
        Either::A(true, .., true) => (),
        Either::A(true, .., false) => (),
        Either::A(false, .., true) => (),
        Either::A(false, .., false) => (),
        Either::B => (),
    }
    match Either::B {
        Either::A(true, .., true) => (),
        Either::A(true, .., false) => (),
        Either::A(.., true) => (),
        Either::A(.., false) => (),
        Either::B => (),
    }
}
`,
	"never": `
enum Never {}

fn enum_(never: Never) {
    match never {}
}
fn enum_ref(never: &Never) {
    match never {}
        //^^^^^ missing match arm
}
fn bang(never: !) {
    match never {}
}
`,
	"unknown type": `
enum Option<T> { Some(T), None }

fn main() {
    match Option::<Never>::None {
        None => (),
        Some(never) => match never {},
    //  ^^^^^^^^^^^ Internal: match check bailed out
    }
    match Option::<Never>::None {
        //^^^^^^^^^^^^^^^^^^^^^ missing match arm
        Option::Some(_never) => {},
    }
}
`,
	"tuple of bools with ellipsis at end missing arm": `
fn main() {
    match (false, true, false) {
        //^^^^^^^^^^^^^^^^^^^^ missing match arm
        (false, ..) => (),
    }
}
`,
	"tuple of bools with ellipsis at beginning missing arm": `
fn main() {
    match (false, true, false) {
        //^^^^^^^^^^^^^^^^^^^^ missing match arm
        (.., false) => (),
    }
}
`,
	"tuple of bools with ellipsis in middle missing arm": `
fn main() {
    match (false, true, false) {
        //^^^^^^^^^^^^^^^^^^^^ missing match arm
        (true, .., false) => (),
    }
}
`,
	"record struct": `struct Foo { a: bool }
fn main(f: Foo) {
    match f {}
        //^ missing match arm
    match f { Foo { a: true } => () }
        //^ missing match arm
    match &f { Foo { a: true } => () }
        //^^ missing match arm
    match f { Foo { a: _ } => () }
    match f {
        Foo { a: true } => (),
        Foo { a: false } => (),
    }
    match &f {
        Foo { a: true } => (),
        Foo { a: false } => (),
    }
}
`,
	"tuple struct": `struct Foo(bool);
fn main(f: Foo) {
    match f {}
        //^ missing match arm
    match f { Foo(true) => () }
        //^ missing match arm
    match f {
        Foo(true) => (),
        Foo(false) => (),
    }
}
`,
	"unit struct": `struct Foo;
fn main(f: Foo) {
    match f {}
        //^ missing match arm
    match f { Foo => () }
}
`,
	"record struct ellipsis": `struct Foo { foo: bool, bar: bool }
fn main(f: Foo) {
    match f { Foo { foo: true, .. } => () }
        //^ missing match arm
    match f {
        //^ missing match arm
        Foo { foo: true, .. } => (),
        Foo { bar: false, .. } => ()
    }
    match f { Foo { .. } => () }
    match f {
        Foo { foo: true, .. } => (),
        Foo { foo: false, .. } => ()
    }
}
`,
	"internal or": `
fn main() {
    enum Either { A(bool), B }
    match Either::B {
        //^^^^^^^^^ missing match arm
        Either::A(true | false) => (),
    }
}
`,
	"no panic at unimplemented subpattern type": `
struct S { a: char}
fn main(v: S) {
    match v { S{ a }      => {} }
    match v { S{ a: _x }  => {} }
    match v { S{ a: 'a' } => {} }
            //^^^^^^^^^^^ Internal: match check bailed out
    match v { S{..}       => {} }
    match v { _           => {} }
    match v { }
        //^ missing match arm
}
`,
	"binding": `
fn main() {
    match true {
        _x @ true => {}
        false     => {}
    }
    match true { _x @ true => {} }
        //^^^^ missing match arm
}
`,
	"binding ref has correct type": `
enum Foo { A }
fn main() {
    match Foo::A {
        ref _x => {}
    //  ^^^^^^ Internal: match check bailed out
        Foo::A => {}
    }
    match (true,) {
        (ref _x,) => {}
        (true,) => {}
    }
}
`,
	"block bodied arms before tuple patterns": `
fn main() {
    match (true,) { (false,) => {} (true,) => {} }
    match (true,) { (false,) => {} }
        //^^^^^^^ missing match arm
    match (true, false) {
        (true, _) => {}
        (false, true) => if true {} else {}
        (false, false) => loop {}
    }
}
`,
	"enum non exhaustive": `
//- /lib.rs crate:lib
#[non_exhaustive]
pub enum E { A, B }
fn _local() {
    match E::A { _ => {} }
    match E::A {
        E::A => {}
        E::B => {}
    }
    match E::A {
        E::A | E::B => {}
    }
}

//- /main.rs crate:main deps:lib
use lib::E;
fn main() {
    match E::A { _ => {} }
    match E::A {
        //^^^^ missing match arm
        E::A => {}
        E::B => {}
    }
    match E::A {
        //^^^^ missing match arm
        E::A | E::B => {}
    }
}
`,
	"match guard": `
fn main() {
    match true {
        true if false => {}
        true          => {}
        false         => {}
    }
    match true {
        //^^^^ missing match arm
        true if false => {}
        false         => {}
    }
}
`,
	"pattern type is of substitution": `
struct Foo<T>(T);
struct Bar;
fn main() {
    match Foo(Bar) {
        _ | Foo(Bar) => {}
    }
}
`,
	"record struct no such field": `
struct Foo { }
fn main(f: Foo) {
    match f { Foo { bar } => () }
    //        ^^^^^^^^^^^ Internal: match check bailed out
}
`,
	"match ergonomics with a reference to a generic enum": `
enum Foo<T> { A(T) }
fn main() {
    match &Foo::A(true) {
        _ => {}
        Foo::A(_) => {}
    }
}
`,
	"integers": `
fn main() {
    match 5 {
        10 => (),
    //  ^^ Internal: match check bailed out
        11..20 => (),
    }
}
`,
	"reference patterns at top level": `
fn main() {
    match &false {
        &true => {}
    //  ^^^^^ Internal: match check bailed out
    }
}
`,
	"reference patterns in fields": `
fn main() {
    match (&false,) {
        (true,) => {}
    //  ^^^^^^^ Internal: match check bailed out
    }
    match (&false,) {
        (&true,) => {}
    //  ^^^^^^^^ Internal: match check bailed out
    }
}
`,
}

func TestFixtures(t *testing.T) {
	for name, fixture := range fixtures {
		t.Run(name, func(t *testing.T) {
			checkDiagnostics(t, fixture)
		})
	}
}
